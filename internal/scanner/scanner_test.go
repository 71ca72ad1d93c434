package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/spf13/afero"
)

// Feature: bulk-rename, Property: listing is sorted and indexed over all entries

// DirectoryStructure represents a generated directory structure for testing.
type DirectoryStructure struct {
	Files       []string // List of file names to create
	Directories []string // List of subdirectory names to create
}

// genFileName generates valid file names.
func genFileName() gopter.Gen {
	return gen.IntRange(1, 20).FlatMap(func(length interface{}) gopter.Gen {
		return gen.SliceOfN(length.(int), gen.AlphaChar())
	}, reflect.TypeOf([]rune{})).Map(func(chars []rune) string {
		return string(chars) + ".txt"
	})
}

// genDirName generates valid directory names.
func genDirName() gopter.Gen {
	return gen.IntRange(1, 20).FlatMap(func(length interface{}) gopter.Gen {
		return gen.SliceOfN(length.(int), gen.AlphaLowerChar())
	}, reflect.TypeOf([]rune{})).Map(func(chars []rune) string {
		return "dir_" + string(chars)
	})
}

// genDirectoryStructure generates a directory structure with files and subdirectories.
func genDirectoryStructure() gopter.Gen {
	return gopter.CombineGens(
		gen.SliceOfN(5, genFileName()),
		gen.SliceOfN(3, genDirName()),
	).Map(func(vals []interface{}) DirectoryStructure {
		files := vals[0].([]string)
		dirs := vals[1].([]string)

		// Ensure uniqueness
		fileSet := make(map[string]bool)
		uniqueFiles := []string{}
		for _, f := range files {
			if !fileSet[f] {
				fileSet[f] = true
				uniqueFiles = append(uniqueFiles, f)
			}
		}

		dirSet := make(map[string]bool)
		uniqueDirs := []string{}
		for _, d := range dirs {
			if !dirSet[d] && !fileSet[d] {
				dirSet[d] = true
				uniqueDirs = append(uniqueDirs, d)
			}
		}

		return DirectoryStructure{
			Files:       uniqueFiles,
			Directories: uniqueDirs,
		}
	})
}

// setupMemDirectory creates the given structure under /work in an in-memory filesystem.
func setupMemDirectory(t *testing.T, structure DirectoryStructure) afero.Fs {
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/work", 0755); err != nil {
		t.Fatalf("Failed to create root: %v", err)
	}
	for _, name := range structure.Files {
		if err := afero.WriteFile(fsys, filepath.Join("/work", name), []byte("test content"), 0644); err != nil {
			t.Fatalf("Failed to create file %s: %v", name, err)
		}
	}
	for _, name := range structure.Directories {
		if err := fsys.Mkdir(filepath.Join("/work", name), 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", name, err)
		}
	}
	return fsys
}

func regularFiles(entries []Entry) []Entry {
	var files []Entry
	for _, e := range entries {
		if e.IsRegular {
			files = append(files, e)
		}
	}
	return files
}

func TestListSortedAndIndexed(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("entries are byte-sorted and indexed 1..N over files and folders", prop.ForAll(
		func(structure DirectoryStructure) bool {
			fsys := setupMemDirectory(t, structure)

			entries, err := List(fsys, "/work", ListOptions{})
			if err != nil {
				t.Logf("List failed: %v", err)
				return false
			}

			want := append(append([]string{}, structure.Files...), structure.Directories...)
			sort.Strings(want)

			if len(entries) != len(want) {
				t.Logf("Expected %d entries, got %d", len(want), len(entries))
				return false
			}
			for i, e := range entries {
				if e.Name != want[i] {
					t.Logf("Entry %d: expected %q, got %q", i, want[i], e.Name)
					return false
				}
				if e.Index != i+1 {
					t.Logf("Entry %q: expected index %d, got %d", e.Name, i+1, e.Index)
					return false
				}
			}
			return true
		},
		genDirectoryStructure(),
	))

	properties.Property("Files returns only regular files", prop.ForAll(
		func(structure DirectoryStructure) bool {
			fsys := setupMemDirectory(t, structure)

			entries, err := List(fsys, "/work", ListOptions{})
			if err != nil {
				t.Logf("List failed: %v", err)
				return false
			}

			files := regularFiles(entries)
			if len(files) != len(structure.Files) {
				t.Logf("Expected %d files, got %d", len(structure.Files), len(files))
				return false
			}
			for _, f := range files {
				if !f.IsRegular || f.Extension != ".txt" {
					t.Logf("Unexpected file entry %+v", f)
					return false
				}
			}
			return true
		},
		genDirectoryStructure(),
	))

	properties.Property("contiguous numbering skips folders", prop.ForAll(
		func(structure DirectoryStructure) bool {
			fsys := setupMemDirectory(t, structure)

			entries, err := List(fsys, "/work", ListOptions{Contiguous: true})
			if err != nil {
				t.Logf("List failed: %v", err)
				return false
			}

			for i, f := range regularFiles(entries) {
				if f.Index != i+1 {
					t.Logf("File %q: expected index %d, got %d", f.Name, i+1, f.Index)
					return false
				}
			}
			for _, e := range entries {
				if !e.IsRegular && e.Index != 0 {
					t.Logf("Folder %q should not be numbered, got %d", e.Name, e.Index)
					return false
				}
			}
			return true
		},
		genDirectoryStructure(),
	))

	properties.TestingRun(t)
}

func TestListSortDeterminism(t *testing.T) {
	fsys := afero.NewMemMapFs()
	for _, name := range []string{"b.txt", "a.txt", "c.txt"} {
		if err := afero.WriteFile(fsys, "/work/"+name, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := List(fsys, "/work", ListOptions{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []Entry{
		{Name: "a.txt", Extension: ".txt", Index: 1, IsRegular: true},
		{Name: "b.txt", Extension: ".txt", Index: 2, IsRegular: true},
		{Name: "c.txt", Extension: ".txt", Index: 3, IsRegular: true},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("List() = %+v, want %+v", entries, want)
	}
}

func TestListOrdinalNotLocale(t *testing.T) {
	fsys := afero.NewMemMapFs()
	// Uppercase sorts before lowercase byte-wise; 'é' (0xC3..) sorts after 'z'.
	for _, name := range []string{"b.txt", "B.txt", "é.txt", "z.txt", "a.txt"} {
		if err := afero.WriteFile(fsys, "/work/"+name, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := List(fsys, "/work", ListOptions{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	var got []string
	for _, e := range entries {
		got = append(got, e.Name)
	}
	want := []string{"B.txt", "a.txt", "b.txt", "z.txt", "é.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestListFolderConsumesIndex(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/work/dir", 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"fileA.txt", "fileB.txt"} {
		if err := afero.WriteFile(fsys, "/work/"+name, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := List(fsys, "/work", ListOptions{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	files := regularFiles(entries)
	if len(files) != 2 || files[0].Index != 2 || files[1].Index != 3 {
		t.Errorf("expected file indices 2 and 3, got %+v", files)
	}
}

func TestListSkipsSymlinks(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "a_target.txt")
	if err := os.WriteFile(target, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(tmpDir, "b_link.txt")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	entries, err := List(afero.NewOsFs(), tmpDir, ListOptions{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	files := regularFiles(entries)
	if len(files) != 1 || files[0].Name != "a_target.txt" {
		t.Errorf("expected only the regular file, got %+v", files)
	}
	if entries[1].IsRegular || entries[1].Index != 2 {
		t.Errorf("symlink entry should be numbered but not regular, got %+v", entries[1])
	}
}

func TestListMissingDirectory(t *testing.T) {
	_, err := List(afero.NewMemMapFs(), "/does/not/exist", ListOptions{})

	var scanErr *ScanError
	if !errors.As(err, &scanErr) {
		t.Fatalf("expected *ScanError, got %v", err)
	}
	if scanErr.Type != DirectoryNotFound {
		t.Errorf("Type = %s, want %s", scanErr.Type, DirectoryNotFound)
	}
}

func TestListManyEntriesWidenIndex(t *testing.T) {
	fsys := afero.NewMemMapFs()
	for i := 0; i < 1001; i++ {
		name := "f" + leftPad(strconv.Itoa(i), 4) + ".dat"
		if err := afero.WriteFile(fsys, "/work/"+name, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := List(fsys, "/work", ListOptions{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if last := entries[len(entries)-1]; last.Index != 1001 {
		t.Errorf("last index = %d, want 1001", last.Index)
	}
}

func leftPad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}
