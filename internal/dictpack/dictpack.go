// Package dictpack bundles dictionary directories into verifiable tar.xz
// archives. The first archive entry is a manifest listing every table file
// with its BLAKE3 hash, so a bundle can be checked before it is unpacked
// over a live dictionary directory.
package dictpack

import (
	"archive/tar"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/akorchak/yodot/internal/errors"
)

// ManifestName is the archive entry holding the bundle manifest.
const ManifestName = "manifest.json"

// ManifestVersion is the current bundle format version.
const ManifestVersion = 1

// FileInfo describes one bundled table file.
type FileInfo struct {
	Blake3 string `json:"blake3"`
	Bytes  int64  `json:"bytes"`
}

// Manifest lists the bundle contents.
type Manifest struct {
	Version   int                 `json:"version"`
	CreatedAt time.Time           `json:"created_at"`
	Files     map[string]FileInfo `json:"files"`
}

// Pack bundles every .txt table file in dictDir into a tar.xz archive at
// outPath. The manifest goes in first; table files follow in name order, so
// packing the same directory twice produces the same layout.
func Pack(dictDir, outPath string) (*Manifest, error) {
	names, err := tableFiles(dictDir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no dictionary files found in %s", dictDir)
	}

	manifest := &Manifest{
		Version:   ManifestVersion,
		CreatedAt: time.Now().UTC(),
		Files:     make(map[string]FileInfo, len(names)),
	}
	contents := make(map[string][]byte, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dictDir, name))
		if err != nil {
			return nil, fmt.Errorf("read table file: %w", err)
		}
		sum := blake3.Sum256(data)
		manifest.Files[name] = FileInfo{
			Blake3: hex.EncodeToString(sum[:]),
			Bytes:  int64(len(data)),
		}
		contents[name] = data
	}

	out, err := createNoFollow(outPath)
	if err != nil {
		return nil, fmt.Errorf("create bundle: %w", err)
	}
	defer out.Close()

	xw, err := xz.NewWriter(out)
	if err != nil {
		return nil, fmt.Errorf("xz writer: %w", err)
	}
	tw := tar.NewWriter(xw)

	manifestData, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize manifest: %w", err)
	}
	if err := writeEntry(tw, ManifestName, manifestData); err != nil {
		return nil, err
	}
	for _, name := range names {
		if err := writeEntry(tw, name, contents[name]); err != nil {
			return nil, err
		}
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("close tar: %w", err)
	}
	if err := xw.Close(); err != nil {
		return nil, fmt.Errorf("close xz: %w", err)
	}
	return manifest, out.Close()
}

// Verify reads the bundle at path and checks every entry against the
// manifest. The manifest must be the first archive entry; every listed file
// must be present with matching size and BLAKE3 hash, and no unlisted files
// may appear.
func Verify(path string) (*Manifest, error) {
	return readBundle(path, nil)
}

// Unpack verifies the bundle and then extracts its table files into destDir.
// A bundle that fails verification writes nothing, so a live dictionary
// directory is never left half-replaced. The manifest itself is not
// extracted.
func Unpack(path, destDir string) (*Manifest, error) {
	if _, err := Verify(path); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(destDir, 0700); err != nil {
		return nil, fmt.Errorf("create dictionary directory: %w", err)
	}
	return readBundle(path, func(name string, data []byte) error {
		return os.WriteFile(filepath.Join(destDir, name), data, 0644)
	})
}

// tableFiles lists the .txt files in dir. os.ReadDir returns names sorted.
func tableFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dictionary directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func writeEntry(tw *tar.Writer, name string, data []byte) error {
	header := &tar.Header{
		Name: name,
		Mode: 0644,
		Size: int64(len(data)),
	}
	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("write %s header: %w", name, err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// readBundle walks the archive once, validating as it goes. extract, when
// non-nil, receives each verified table file.
func readBundle(path string, extract func(name string, data []byte) error) (*Manifest, error) {
	f, err := openNoFollow(path)
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return nil, errors.NewBundleCorrupt(path, fmt.Sprintf("not an xz stream: %v", err))
	}
	tr := tar.NewReader(xr)

	var manifest *Manifest
	seen := make(map[string]bool)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewBundleCorrupt(path, fmt.Sprintf("bad tar entry: %v", err))
		}
		if header.Typeflag != tar.TypeReg {
			return nil, errors.NewBundleCorrupt(path, fmt.Sprintf("unexpected entry type for %q", header.Name))
		}
		// Bundles are flat: any path component is a traversal attempt.
		name := filepath.Clean(header.Name)
		if name != filepath.Base(name) || strings.HasPrefix(name, "..") {
			return nil, errors.NewBundleCorrupt(path, fmt.Sprintf("unsafe entry path %q", header.Name))
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, errors.NewBundleCorrupt(path, fmt.Sprintf("read %s: %v", name, err))
		}

		if manifest == nil {
			if name != ManifestName {
				return nil, errors.NewBundleCorrupt(path, "manifest.json must be the first entry")
			}
			var m Manifest
			if err := json.Unmarshal(data, &m); err != nil {
				return nil, errors.NewBundleCorrupt(path, fmt.Sprintf("bad manifest: %v", err))
			}
			if m.Version != ManifestVersion {
				return nil, errors.NewBundleCorrupt(path, fmt.Sprintf("unsupported bundle version %d", m.Version))
			}
			manifest = &m
			continue
		}

		info, ok := manifest.Files[name]
		if !ok {
			return nil, errors.NewBundleCorrupt(path, fmt.Sprintf("file %s is not in the manifest", name))
		}
		if seen[name] {
			return nil, errors.NewBundleCorrupt(path, fmt.Sprintf("duplicate entry %s", name))
		}
		seen[name] = true
		if int64(len(data)) != info.Bytes {
			return nil, errors.NewBundleCorrupt(path, fmt.Sprintf("file %s: size %d, manifest says %d", name, len(data), info.Bytes))
		}
		sum := blake3.Sum256(data)
		if hex.EncodeToString(sum[:]) != info.Blake3 {
			return nil, errors.NewBundleCorrupt(path, fmt.Sprintf("file %s: blake3 mismatch", name))
		}
		if extract != nil {
			if err := extract(name, data); err != nil {
				return nil, fmt.Errorf("extract %s: %w", name, err)
			}
		}
	}

	if manifest == nil {
		return nil, errors.NewBundleCorrupt(path, "empty archive")
	}
	for name := range manifest.Files {
		if !seen[name] {
			return nil, errors.NewBundleCorrupt(path, fmt.Sprintf("file %s listed in manifest but missing", name))
		}
	}
	return manifest, nil
}
