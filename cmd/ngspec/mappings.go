package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/boyter/gocodewalker"
	"go.uber.org/zap"

	"github.com/rlch/ngspec"
	"github.com/rlch/ngspec/mapping"
	"github.com/rlch/ngspec/validate"
)

// Mapping command errors.
var (
	ErrNoMappingFiles = errors.New("no .mapping.yaml files found")
	ErrInvalidMapping = errors.New("mapping is invalid")
)

var mappingSuffixes = []string{".mapping.yaml", ".mapping.yml"}

func isMappingFile(path string) bool {
	for _, suffix := range mappingSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}

	return false
}

// collectMappingFiles expands directory arguments into the mapping documents
// below them, respecting .gitignore. File arguments are taken as given.
func collectMappingFiles(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

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

		found, err := walkDir(arg)
		if err != nil {
			return nil, err
		}

		files = append(files, found...)
	}

	return files, nil
}

// walkDir returns the mapping documents below root in lexical order.
func walkDir(root string) ([]string, error) {
	fileListQueue := make(chan *gocodewalker.File, 100)

	fileWalker := gocodewalker.NewFileWalker(root, fileListQueue)

	var walkErr error
	fileWalker.SetErrorHandler(func(e error) bool {
		walkErr = e
		return true
	})

	var (
		files []string
		wg    sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for f := range fileListQueue {
			if isMappingFile(f.Location) {
				files = append(files, f.Location)
			}
		}
	}()

	if err := fileWalker.Start(); err != nil {
		return nil, err
	}

	wg.Wait()

	sort.Strings(files)

	return files, walkErr
}

// loadSnapshot loads and merges the mapping documents named by args.
func (a *app) loadSnapshot(args []string) (ngspec.Snapshot, error) {
	files, err := collectMappingFiles(args)
	if err != nil {
		return ngspec.Snapshot{}, err
	}

	if len(files) == 0 {
		return ngspec.Snapshot{}, ErrNoMappingFiles
	}

	docs, err := mapping.NewLoader(a.logger).LoadAll(files)
	if err != nil {
		return ngspec.Snapshot{}, err
	}

	snapshot, warnings, err := mapping.Merge(docs)
	if err != nil {
		return ngspec.Snapshot{}, fmt.Errorf("merging mappings: %w", err)
	}

	for _, w := range warnings {
		a.logger.Warn(w.Message, zap.String("code", w.Code), zap.String("file", w.Path))
	}

	return snapshot, nil
}

// loadValidSnapshot is loadSnapshot followed by validation. A violation is
// printed to stderr and reported as ErrInvalidMapping.
func (a *app) loadValidSnapshot(args []string, batchSize string) (ngspec.Snapshot, error) {
	snapshot, err := a.loadSnapshot(args)
	if err != nil {
		return ngspec.Snapshot{}, err
	}

	if verr := validate.Snapshot(snapshot, batchSize); verr != nil {
		a.printViolation(verr)
		return ngspec.Snapshot{}, ErrInvalidMapping
	}

	return snapshot, nil
}
