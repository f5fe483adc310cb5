package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NodeKind is the type of a FileNode.
type NodeKind string

const (
	KindFolder NodeKind = "folder"
	KindFile   NodeKind = "file"
	KindImage  NodeKind = "image"
)

// ParseNodeKind reports whether s names a known kind.
func ParseNodeKind(s string) (NodeKind, bool) {
	switch k := NodeKind(s); k {
	case KindFolder, KindFile, KindImage:
		return k, true
	}
	return "", false
}

// HasContent reports whether nodes of this kind carry blob content.
func (k NodeKind) HasContent() bool {
	return k == KindFile || k == KindImage
}

// ParentRef is either Root or a reference to a folder node. The zero value is
// Root.
type ParentRef struct {
	id string
}

// Root is the top of a user's hierarchy.
func Root() ParentRef { return ParentRef{} }

// ParentNode references the node with the given id.
func ParentNode(id string) ParentRef { return ParentRef{id: id} }

// ParseParentRef parses the query form of a parent: "" and "0" are Root,
// anything else must be a node id. ok is false for a malformed id.
func ParseParentRef(s string) (ref ParentRef, ok bool) {
	if s == "" || s == "0" {
		return Root(), true
	}
	if _, err := uuid.Parse(s); err != nil {
		return ParentRef{}, false
	}
	return ParentNode(s), true
}

func (p ParentRef) IsRoot() bool { return p.id == "" }

// ID returns the referenced node id, "" for Root.
func (p ParentRef) ID() string { return p.id }

// String renders Root as "0".
func (p ParentRef) String() string {
	if p.IsRoot() {
		return "0"
	}
	return p.id
}

// MarshalJSON renders Root as the number 0 and a node reference as its id.
func (p ParentRef) MarshalJSON() ([]byte, error) {
	if p.IsRoot() {
		return []byte("0"), nil
	}
	return json.Marshal(p.id)
}

// UnmarshalJSON accepts 0, "0", "", false, null or a node id. Other numbers
// become ids as well.
func (p *ParentRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte("0")) || bytes.Equal(b, []byte("false")) {
		*p = Root()
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// Any other number is kept as an id that will not resolve.
		var n json.Number
		if json.Unmarshal(b, &n) != nil {
			return err
		}
		s = n.String()
	}
	if s == "" || s == "0" {
		*p = Root()
		return nil
	}
	*p = ParentNode(s)
	return nil
}

// FileNode is a folder or a content-bearing leaf. IsPublic is the only field
// that changes after creation.
type FileNode struct {
	ID           string
	OwnerID      string
	Name         string
	Kind         NodeKind
	Parent       ParentRef
	IsPublic     bool
	ContentPath  string
	CreatedOrder int64
	CreatedAt    time.Time
}

// IsFolder is a shorthand for Kind == KindFolder.
func (n *FileNode) IsFolder() bool { return n.Kind == KindFolder }
