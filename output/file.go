package output

import (
	"path"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/teranos/bindgen/errors"
	"github.com/teranos/bindgen/logger"
)

// File is one generated file: a path and a root section
type File struct {
	Path string
	Root *Section
}

// NewFile creates a file with an empty root section
func NewFile(p string) *File {
	return &File{Path: p, Root: NewSection("root")}
}

func (f *File) Write(text string)                         { f.Root.Write(text) }
func (f *File) Writeln(text string)                       { f.Root.Writeln(text) }
func (f *File) Writef(format string, args ...interface{}) { f.Root.Writef(format, args...) }
func (f *File) IndexedWrite(index int, text string)       { f.Root.IndexedWrite(index, text) }
func (f *File) IndexedWriteln(index int, text string)     { f.Root.IndexedWriteln(index, text) }

// Section returns the nested section called name anywhere in the file
func (f *File) Section(name string) (*Section, bool) {
	if f.Root.Name == name {
		return f.Root, true
	}
	return f.Root.Find(name)
}

// Content serializes the file
func (f *File) Content() string { return f.Root.String() }

// FileSet maps output paths to files, remembering insertion order
type FileSet struct {
	files map[string]*File
	order []string
}

// NewFileSet creates an empty set
func NewFileSet() *FileSet {
	return &FileSet{files: make(map[string]*File)}
}

func cleanPath(p string) string {
	return path.Clean(filepath.ToSlash(p))
}

// Entry returns the file at p, inserting an empty one if absent
func (fs *FileSet) Entry(p string) *File {
	p = cleanPath(p)
	if f, ok := fs.files[p]; ok {
		return f
	}
	f := NewFile(p)
	fs.files[p] = f
	fs.order = append(fs.order, p)
	return f
}

// Add stores f, replacing any file with the same path
func (fs *FileSet) Add(f *File) {
	f.Path = cleanPath(f.Path)
	if _, ok := fs.files[f.Path]; !ok {
		fs.order = append(fs.order, f.Path)
	}
	fs.files[f.Path] = f
}

// Get returns the file at p
func (fs *FileSet) Get(p string) (*File, bool) {
	f, ok := fs.files[cleanPath(p)]
	return f, ok
}

// Len returns the number of files
func (fs *FileSet) Len() int { return len(fs.files) }

// Files returns every file sorted by path
func (fs *FileSet) Files() []*File {
	paths := append([]string(nil), fs.order...)
	sort.Strings(paths)
	out := make([]*File, 0, len(paths))
	for _, p := range paths {
		out = append(out, fs.files[p])
	}
	return out
}

// Save writes every file under dir on afs, creating parent directories
func (fs *FileSet) Save(afs afero.Fs, dir string) error {
	for _, f := range fs.Files() {
		target := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := afs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return errors.Wrapf(err, "failed to create directory for %s", target)
		}
		if err := afero.WriteFile(afs, target, []byte(f.Content()), 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", target)
		}
		logger.Debugw("Wrote file", logger.FieldFile, target)
	}
	return nil
}

// SaveToDisk writes every file under dir on the OS filesystem
func (fs *FileSet) SaveToDisk(dir string) error {
	return fs.Save(afero.NewOsFs(), dir)
}
