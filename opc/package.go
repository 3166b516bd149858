// Package opc reads and writes Open Packaging Convention containers: the zip
// archives behind .docx, .dotx, .docm and .dotm files.
//
// A [Package] keeps every entry in its original order together with the
// compression method and modification time it was stored with, so a package
// that is read and written back without edits differs from the original only
// in zip framing.
package opc

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// ErrNotPackage is returned when the input is not a zip archive.
var ErrNotPackage = errors.New("not a zip package")

// Part is one entry of a package.
type Part struct {
	Name     string // zip entry name, without a leading slash
	Data     []byte
	Method   uint16
	Modified time.Time
}

// Package is an ordered set of parts.
type Package struct {
	parts []*Part
	index map[string]int
}

// New returns an empty package.
func New() *Package {
	return &Package{index: make(map[string]int)}
}

// Read loads every entry of a zip archive into memory.
func Read(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPackage, err)
	}

	p := New()
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		content, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		p.add(&Part{
			Name:     f.Name,
			Data:     content,
			Method:   f.Method,
			Modified: f.Modified,
		})
	}
	return p, nil
}

// ReadFile loads the package stored at path.
func ReadFile(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening package: %w", err)
	}
	return Read(data)
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (p *Package) add(part *Part) {
	if i, ok := p.index[part.Name]; ok {
		p.parts[i] = part
		return
	}
	p.index[part.Name] = len(p.parts)
	p.parts = append(p.parts, part)
}

// Names returns the part names in package order.
func (p *Package) Names() []string {
	names := make([]string, len(p.parts))
	for i, part := range p.parts {
		names[i] = part.Name
	}
	return names
}

// Part returns the named part. A leading slash in name is ignored.
func (p *Package) Part(name string) (*Part, bool) {
	i, ok := p.index[strings.TrimPrefix(name, "/")]
	if !ok {
		return nil, false
	}
	return p.parts[i], true
}

// Data returns the bytes of the named part.
func (p *Package) Data(name string) ([]byte, bool) {
	part, ok := p.Part(name)
	if !ok {
		return nil, false
	}
	return part.Data, true
}

// Has reports whether the package contains the named part.
func (p *Package) Has(name string) bool {
	_, ok := p.index[strings.TrimPrefix(name, "/")]
	return ok
}

// Set replaces the bytes of an existing part, keeping its position and zip
// attributes, or appends a new deflated part.
func (p *Package) Set(name string, data []byte) {
	name = strings.TrimPrefix(name, "/")
	if i, ok := p.index[name]; ok {
		p.parts[i].Data = data
		return
	}
	p.add(&Part{Name: name, Data: data, Method: zip.Deflate})
}

// Remove deletes the named part.
func (p *Package) Remove(name string) {
	name = strings.TrimPrefix(name, "/")
	i, ok := p.index[name]
	if !ok {
		return
	}
	p.parts = append(p.parts[:i], p.parts[i+1:]...)
	delete(p.index, name)
	for j := i; j < len(p.parts); j++ {
		p.index[p.parts[j].Name] = j
	}
}

// Clone returns a copy of the package. Part bytes are shared; callers replace
// them with [Package.Set] rather than modifying them in place.
func (p *Package) Clone() *Package {
	c := New()
	for _, part := range p.parts {
		cp := *part
		c.add(&cp)
	}
	return c
}

// Write serializes the package as a zip archive.
func (p *Package) Write(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, part := range p.parts {
		hdr := &zip.FileHeader{
			Name:     part.Name,
			Method:   part.Method,
			Modified: part.Modified,
		}
		if hdr.Method != zip.Store {
			hdr.Method = zip.Deflate
		}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("writing %s: %w", part.Name, err)
		}
		if _, err := fw.Write(part.Data); err != nil {
			return fmt.Errorf("writing %s: %w", part.Name, err)
		}
	}
	return zw.Close()
}

// Bytes serializes the package into memory.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
