package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	consts "github.com/khanhnv2901/wpinspect/internal/shared/constants"
)

func writeOutputFile(path string, data []byte) error {
	clean := filepath.Clean(path)
	if dir := filepath.Dir(clean); dir != "." {
		if err := os.MkdirAll(dir, consts.DefaultDirPerm); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(clean, data, consts.DefaultFilePerm); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
