package filesystem

import (
	"os"
	"path/filepath"

	"kgeyst.com/iris/pkg/common"
)

type TempFilePathProvider struct {
	tempDirectoryPath string
}

func NewTempFilePathProvider(config *common.Config) *TempFilePathProvider {
	return &TempFilePathProvider{
		tempDirectoryPath: config.GetStringOrDefault("tempDirectory", os.TempDir()),
	}
}

func (t *TempFilePathProvider) GetTempFilePath(fileName string) string {
	return filepath.Join(t.tempDirectoryPath, fileName)
}
