package handler

import (
	"printlab/internal/usecase"
)

var (
	fileHandler     *FileHandler
	analysisHandler *AnalysisHandler
	previewHandler  *PreviewHandler
)

func Setup(
	fileUseCase *usecase.FileUseCase,
	analysisUseCase *usecase.AnalysisUseCase,
	previewUseCase *usecase.PreviewUseCase,
) {
	fileHandler = NewFileHandler(fileUseCase)
	analysisHandler = NewAnalysisHandler(analysisUseCase)
	previewHandler = NewPreviewHandler(previewUseCase)
}

func GetFileHandler() *FileHandler {
	return fileHandler
}

func GetAnalysisHandler() *AnalysisHandler {
	return analysisHandler
}

func GetPreviewHandler() *PreviewHandler {
	return previewHandler
}
