package sites

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MarshalDocument encodes doc as indented JSON. A nil Sites slice is encoded
// as an empty array.
func MarshalDocument(doc *Document) ([]byte, error) {
	out := *doc
	if out.Sites == nil {
		out.Sites = []Site{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// WriteDocument writes doc to w as indented JSON followed by a newline.
func WriteDocument(w io.Writer, doc *Document) error {
	data, err := MarshalDocument(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// ReadDocument decodes a document from r. ReadDocument does not close r.
func ReadDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if doc.Sites == nil {
		doc.Sites = []Site{}
	}
	return &doc, nil
}

// WriteDocumentFile writes doc to path.
func WriteDocumentFile(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteDocument(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadDocumentFile reads a document from path.
func ReadDocumentFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f)
}
