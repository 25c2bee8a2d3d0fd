package requests

import (
	"encoding/json"

	"github.com/brettbedarf/treefs"
)

// NodeRequestDTO is the JSON representation of [treefs.NodeRequest]
type NodeRequestDTO struct {
	Path string                       `json:"path"`
	Type treefs.NodeCreateRequestType `json:"type"`
	UUID *string                      `json:"uuid,omitempty"` // Optional; generated when absent
}

// FileRequestDTO is the JSON representation of [treefs.FileCreateRequest]
type FileRequestDTO struct {
	NodeRequestDTO
	Content *string `json:"content,omitempty"`
	// Source is a raw source config, i.e. {"type": "http", "url": "..."}.
	// See the adapters package for built-in source types.
	Source json.RawMessage `json:"source,omitempty"`
}

type DirRequestDTO struct {
	NodeRequestDTO
}
