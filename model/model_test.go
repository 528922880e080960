package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFileNodeMarshalJSONEmptyChildrenNotNull(t *testing.T) {
	leaf := &FileNode{Path: `F:\a.txt`, Name: "a.txt", Size: 5}

	b, err := json.Marshal(leaf)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(b), `"children":null`) {
		t.Errorf("leaf node marshaled children as null, want []: %s", b)
	}
	if !strings.Contains(string(b), `"children":[]`) {
		t.Errorf("leaf node did not marshal children as [], got: %s", b)
	}
}

func TestFileNodeMarshalJSONPreservesPopulatedChildren(t *testing.T) {
	root := &FileNode{
		Path:  `F:\`,
		Name:  "F:",
		IsDir: true,
		Size:  5,
		Children: []*FileNode{
			{Path: `F:\a.txt`, Name: "a.txt", Size: 5},
		},
	}

	b, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded FileNode
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded.Children) != 1 || decoded.Children[0].Name != "a.txt" {
		t.Errorf("round-tripped children = %+v, want one entry named a.txt", decoded.Children)
	}
}
