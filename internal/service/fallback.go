package service

import "strings"

// GenericFallback is returned when no canned keyword matches.
const GenericFallback = "這是一個很好的問題！根據您提到的內容，我建議您可以參考課程教材中的相關章節，或者查看相關的補充資料。如果還有其他問題，歡迎繼續提問！"

type cannedEntry struct {
	keywords []string
	reply    string
}

// Keyword order matters: the first matching entry wins.
var cannedReplies = []cannedEntry{
	{
		keywords: []string{"梯度", "gradient"},
		reply:    "梯度下降是一種優化演算法，用於尋找函數的最小值。它通過計算損失函數對參數的梯度，然後沿著梯度的反方向更新參數。",
	},
	{
		keywords: []string{"神經網路", "neural"},
		reply:    "神經網路是由多個層級組成的計算模型，每一層包含多個神經元。通過前向傳播和反向傳播，神經網路可以學習複雜的模式。",
	},
	{
		keywords: []string{"過擬合", "overfitting"},
		reply:    "過擬合是指模型在訓練資料上表現很好，但在測試資料上表現較差的現象。可以通過正則化、dropout、增加資料量等方法來緩解。",
	},
	{
		keywords: []string{"損失函數", "loss"},
		reply:    "損失函數用來衡量模型預測值與真實值之間的差異。常見的損失函數包括均方誤差（MSE）和交叉熵（Cross-Entropy）。",
	},
}

// CannedReply is the last line of defense when every backend failed: a
// deterministic keyword-matched explanation, or a generic pointer to the
// course materials. Always returns non-empty text.
func CannedReply(message string) string {
	lower := strings.ToLower(message)
	for _, entry := range cannedReplies {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.reply
			}
		}
	}
	return GenericFallback
}
