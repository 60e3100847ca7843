package main

import (
	"fmt"
	"os"
	"sort"

	"mercator-hq/valvemap/pkg/config"
	"mercator-hq/valvemap/pkg/indexer"
)

// collectMapFiles expands args into map files. Files are taken as given;
// directories are walked (recursively when watch.recursive is set) for
// files with one of the watch extensions.
func collectMapFiles(args []string, cfg *config.Config) ([]string, error) {
	walker := indexer.NewWalker(cfg.Watch.Extensions, cfg.Watch.Recursive)

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		err = walker.Walk(arg, func(path string, err error) error {
			if err != nil {
				return err
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list map files in %s: %w", arg, err)
		}
	}

	sort.Strings(files)
	return files, nil
}
