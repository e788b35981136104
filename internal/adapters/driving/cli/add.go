package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var addRecursive bool

var addCmd = &cobra.Command{
	Use:   "add [file|dir]...",
	Short: "Add documents to the corpus",
	Long: `Ingests the given PDF, text or Markdown files into the corpus.
Directories are expanded to the supported files they contain; pass -r
to descend into subdirectories. Files that fail to ingest are reported
and skipped, the rest continue.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().BoolVarP(&addRecursive, "recursive", "r", false, "descend into subdirectories")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initEngine(ctx); err != nil {
		return err
	}

	paths, err := expandPaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		cmd.Println("추가할 수 있는 문서가 없습니다.")
		return nil
	}

	cancel := engine.Subscribe(alertPrinter(cmd))
	defer cancel()

	added, err := engine.AddFiles(ctx, paths)
	if err != nil {
		return err
	}

	cmd.Printf("문서 %d개 추가됨 (청크 %d개)\n", added, engine.ChunkCount())
	return nil
}

// expandPaths resolves the command arguments to ingestable files.
// Directories expand to the supported files directly inside them, or
// the whole subtree with --recursive.
func expandPaths(args []string) ([]string, error) {
	supported := make(map[string]bool)
	for _, ext := range registry.SupportedExtensions() {
		supported[ext] = true
	}

	var paths []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil || len(matches) == 0 {
			matches = []string{arg}
		}
		for _, match := range matches {
			expanded, err := expandOne(match, supported)
			if err != nil {
				return nil, err
			}
			paths = append(paths, expanded...)
		}
	}
	return paths, nil
}

func expandOne(path string, supported map[string]bool) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var paths []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && !addRecursive {
				return filepath.SkipDir
			}
			return nil
		}
		if supported[strings.ToLower(filepath.Ext(p))] {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", path, err)
	}
	return paths, nil
}
