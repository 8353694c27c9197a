package generator

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/teranos/bindgen/errors"
)

// CheckResult holds the result of a bindings check
type CheckResult struct {
	UpToDate    bool
	Differences map[string][]string // language -> files with differences
}

// Languages returns the languages with differences, sorted
func (r *CheckResult) Languages() []string {
	langs := make([]string, 0, len(r.Differences))
	for lang := range r.Differences {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// CompareDirectories compares freshly generated bindings with existing ones.
//
// Each generator writes to generated/<BasePath>, which is compared with
// existing/<BasePath>. Files present only in existing are stale and are
// reported too. If ignoreMetadata is true, header lines carrying the source
// version are not compared.
func CompareDirectories(afs afero.Fs, gens []Generator, generated, existing string, ignoreMetadata bool) (*CheckResult, error) {
	differences := make(map[string][]string)

	for _, g := range gens {
		diffs, err := compareDirectory(afs,
			filepath.Join(generated, g.BasePath()),
			filepath.Join(existing, g.BasePath()),
			ignoreMetadata)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to compare %s bindings", g.Language())
		}
		if len(diffs) > 0 {
			differences[g.Language()] = diffs
		}
	}

	return &CheckResult{
		UpToDate:    len(differences) == 0,
		Differences: differences,
	}, nil
}

// compareDirectory returns the relative paths that differ between the two
// directories: changed, missing from existingDir, or only in existingDir.
func compareDirectory(afs afero.Fs, generatedDir, existingDir string, ignoreMetadata bool) ([]string, error) {
	var diffs []string

	generated, err := listFiles(afs, generatedDir)
	if err != nil {
		return nil, err
	}
	existing, err := listFiles(afs, existingDir)
	if err != nil {
		return nil, err
	}

	for rel := range generated {
		if !existing[rel] {
			diffs = append(diffs, rel+" (missing)")
			continue
		}
		different, err := filesAreDifferent(afs,
			filepath.Join(generatedDir, rel),
			filepath.Join(existingDir, rel),
			ignoreMetadata)
		if err != nil {
			diffs = append(diffs, rel+" (error: "+err.Error()+")")
		} else if different {
			diffs = append(diffs, rel)
		}
	}
	for rel := range existing {
		if !generated[rel] {
			diffs = append(diffs, rel+" (stale)")
		}
	}

	sort.Strings(diffs)
	return diffs, nil
}

// listFiles returns slash-separated relative paths of the files under dir.
// A missing directory has no files.
func listFiles(afs afero.Fs, dir string) (map[string]bool, error) {
	files := make(map[string]bool)
	if _, err := afs.Stat(dir); os.IsNotExist(err) {
		return files, nil
	}

	err := afero.Walk(afs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != dir && shouldSkipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if shouldSkipFile(info.Name()) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = true
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", dir)
	}
	return files, nil
}

// shouldSkipDir returns true for build output directories
func shouldSkipDir(basename string) bool {
	return basename == "target" || basename == "bin" || basename == "obj"
}

// shouldSkipFile returns true if the file should be skipped during comparison.
// Build manifests next to the bindings are written by hand.
func shouldSkipFile(basename string) bool {
	skip := []string{
		"README.md",
		"Cargo.lock",
		"Cargo.toml",
		".gitignore",
	}

	for _, s := range skip {
		if basename == s {
			return true
		}
	}

	return strings.HasSuffix(basename, ".csproj")
}

// filesAreDifferent compares two files, optionally ignoring metadata lines.
func filesAreDifferent(afs afero.Fs, file1, file2 string, ignoreMetadata bool) (bool, error) {
	content1, err := afero.ReadFile(afs, file1)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file1)
	}

	content2, err := afero.ReadFile(afs, file2)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file2)
	}

	if !ignoreMetadata {
		return !bytes.Equal(content1, content2), nil
	}

	return filterMetadataLines(content1) != filterMetadataLines(content2), nil
}

// filterMetadataLines removes the header lines that carry the source version.
// They change on every release and don't represent binding changes.
// Returns empty string if scanner encounters an error.
func filterMetadataLines(content []byte) string {
	var result strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(content))

	for scanner.Scan() {
		line := scanner.Text()
		if isMetadataLine(strings.TrimSpace(line)) {
			continue
		}
		result.WriteString(line)
		result.WriteString("\n")
	}

	if err := scanner.Err(); err != nil {
		return ""
	}

	return result.String()
}

func isMetadataLine(trimmed string) bool {
	for _, comment := range []string{"//", "#"} {
		if strings.HasPrefix(trimmed, comment) {
			rest := strings.TrimSpace(strings.TrimPrefix(trimmed, comment))
			return strings.HasPrefix(rest, SourceVersionPrefix)
		}
	}
	return false
}
