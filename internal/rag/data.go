package rag

import "github.com/airclass/airclass/internal/model"

// DefaultChunks returns the built-in knowledge base covering the seeded
// courses. Extend per course/lesson here or ship extra chunks via the
// chunks.extra_path config.
func DefaultChunks() []model.Chunk {
	return []model.Chunk{
		{
			ID:       "ml-intro",
			CourseID: "ml-2026",
			LessonID: "lesson-1",
			Title:    "機器學習導論",
			Content:  "機器學習是讓電腦從資料中學習的技術，大致分為監督式學習（有標籤）、非監督式學習（無標籤）與強化學習。本課程會涵蓋監督式與非監督式學習的基礎。",
			Keywords: []string{"機器學習", "導論", "監督式", "非監督式", "ML", "introduction"},
		},
		{
			ID:       "ml-gradient",
			CourseID: "ml-2026",
			LessonID: "lesson-2",
			Title:    "梯度下降",
			Content:  "梯度下降是一種優化演算法，用於尋找函數的最小值。透過計算損失函數對參數的梯度，沿梯度的反方向更新參數。可搭配學習率、SGD、Mini-batch 等變體。",
			Keywords: []string{"梯度", "gradient", "下降", "優化", "optimization", "損失函數", "學習率"},
		},
		{
			ID:       "ml-linear",
			CourseID: "ml-2026",
			LessonID: "lesson-2",
			Title:    "線性回歸",
			Content:  "線性回歸假設目標與特徵呈線性關係，以最小化均方誤差（MSE）來擬合參數。可用解析解（正規方程）或梯度下降求解。",
			Keywords: []string{"線性回歸", "linear regression", "MSE", "均方誤差"},
		},
		{
			ID:       "ml-logistic",
			CourseID: "ml-2026",
			LessonID: "lesson-3",
			Title:    "邏輯回歸與分類",
			Content:  "邏輯回歸用於二分類，以 sigmoid 函數輸出機率。損失函數常用交叉熵（Cross-Entropy）。可推廣到多分類（softmax）。",
			Keywords: []string{"邏輯回歸", "logistic", "分類", "classification", "sigmoid", "交叉熵", "cross-entropy"},
		},
		{
			ID:       "ml-neural",
			CourseID: "ml-2026",
			LessonID: "lesson-4",
			Title:    "神經網路基礎",
			Content:  "神經網路由多層神經元組成，透過前向傳播計算輸出，反向傳播計算梯度。常見激勵函數有 ReLU、sigmoid。可透過正則化、dropout 減緩過擬合。",
			Keywords: []string{"神經網路", "neural network", "前向傳播", "反向傳播", "ReLU", "過擬合", "overfitting", "dropout"},
		},
		{
			ID:       "ml-overfitting",
			CourseID: "ml-2026",
			Title:    "過擬合與正則化",
			Content:  "過擬合指模型在訓練集表現好、在測試集表現差。緩解方式：增加資料、正則化（L1/L2）、dropout、early stopping、資料增強等。",
			Keywords: []string{"過擬合", "overfitting", "正則化", "regularization", "L1", "L2", "early stopping"},
		},
		{
			ID:       "ml-loss",
			CourseID: "ml-2026",
			Title:    "損失函數",
			Content:  "損失函數衡量預測與真實的差異。回歸常用均方誤差（MSE）；分類常用交叉熵（Cross-Entropy）。選擇需與任務與輸出層配合。",
			Keywords: []string{"損失函數", "loss", "MSE", "交叉熵", "cross-entropy", "均方誤差"},
		},
		{
			ID:       "ml-dl-intro",
			CourseID: "ml-2026",
			LessonID: "lesson-5",
			Title:    "深度學習入門",
			Content:  "深度學習指多層神經網路，可學習階層特徵。實務上需注意初始化、激勵函數、優化器（如 Adam）與超參數調校。",
			Keywords: []string{"深度學習", "deep learning", "Adam", "優化器", "超參數"},
		},
		{
			ID:       "dl-basics",
			CourseID: "dl-2026",
			LessonID: "lesson-1-dl",
			Title:    "深度學習基礎",
			Content:  "深度學習基礎包含多層感知器（MLP）、反向傳播、常見激勵函數與權重初始化方式。實作上多用 GPU 與框架（如 PyTorch、TensorFlow）。",
			Keywords: []string{"深度學習", "MLP", "PyTorch", "TensorFlow", "GPU"},
		},
		{
			ID:       "dl-cnn",
			CourseID: "dl-2026",
			LessonID: "lesson-2-dl",
			Title:    "卷積神經網路",
			Content:  "卷積神經網路（CNN）透過卷積層提取局部特徵，常用於影像分類、物體偵測。經典架構包括 LeNet、AlexNet、VGG、ResNet。",
			Keywords: []string{"CNN", "卷積", "convolution", "ResNet", "VGG", "影像", "image"},
		},
		{
			ID:       "course-ml",
			CourseID: "ml-2026",
			Title:    "課程簡介：機器學習",
			Content:  "本課程涵蓋機器學習的基礎理論與實務應用，包括監督式學習、非監督式學習、深度學習等主題。",
			Keywords: []string{"機器學習", "Machine Learning", "監督式", "非監督式", "深度學習"},
		},
		{
			ID:       "course-dl",
			CourseID: "dl-2026",
			Title:    "課程簡介：深度學習",
			Content:  "深入探討深度神經網路、卷積神經網路、循環神經網路等深度學習模型與應用。",
			Keywords: []string{"深度學習", "Deep Learning", "CNN", "RNN", "神經網路"},
		},
	}
}
