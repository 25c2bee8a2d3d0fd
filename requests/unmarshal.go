package requests

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brettbedarf/treefs"
	"github.com/brettbedarf/treefs/adapters"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// GetNodeType extracts the node type from JSON without full unmarshaling
func GetNodeType(data []byte) (treefs.NodeCreateRequestType, error) {
	var meta struct {
		Type treefs.NodeCreateRequestType `json:"type"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return "", err
	}
	return meta.Type, nil
}

// UnmarshalFileRequest handles file-specific unmarshaling. A source config is
// resolved to its provider through r but not loaded.
func UnmarshalFileRequest(data []byte, r *adapters.Registry) (*treefs.FileCreateRequest, error) {
	var dto FileRequestDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}

	req := &treefs.FileCreateRequest{NodeRequest: convertNodeDTO(dto.NodeRequestDTO)}
	hasSource := len(dto.Source) > 0 && string(dto.Source) != "null"
	if hasSource && dto.Content != nil {
		return nil, fmt.Errorf("file request %q has both content and source", dto.Path)
	}
	if dto.Content != nil {
		req.Content = *dto.Content
	}
	if hasSource {
		src, err := r.Source(dto.Source)
		if err != nil {
			return nil, fmt.Errorf("file request %q: %w", dto.Path, err)
		}
		req.Source = src
	}
	return req, nil
}

// UnmarshalDirRequest handles explicit directory unmarshaling
func UnmarshalDirRequest(data []byte) (*treefs.DirCreateRequest, error) {
	var dto DirRequestDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}
	return &treefs.DirCreateRequest{NodeRequest: convertNodeDTO(dto.NodeRequestDTO)}, nil
}

// Requests is a decoded seed file
type Requests struct {
	Dirs  []*treefs.DirCreateRequest
	Files []*treefs.FileCreateRequest
}

// UnmarshalRequests decodes a seed document: a list of node requests in the
// format named by ext (".json", ".yaml" or ".yml"). Entries that fail to decode
// are collected into the returned error; the rest are still returned.
func UnmarshalRequests(data []byte, ext string, r *adapters.Registry) (*Requests, error) {
	rawNodes, err := rawNodeList(data, ext)
	if err != nil {
		return nil, err
	}

	reqs := &Requests{}
	var errs []error
	for i, rawNode := range rawNodes {
		nodeType, err := GetNodeType(rawNode)
		if err != nil {
			errs = append(errs, fmt.Errorf("node %d: %w", i, err))
			continue
		}

		switch nodeType {
		case treefs.FileNodeType:
			fileReq, err := UnmarshalFileRequest(rawNode, r)
			if err != nil {
				errs = append(errs, fmt.Errorf("node %d: %w", i, err))
				continue
			}
			reqs.Files = append(reqs.Files, fileReq)
		case treefs.DirNodeType:
			dirReq, err := UnmarshalDirRequest(rawNode)
			if err != nil {
				errs = append(errs, fmt.Errorf("node %d: %w", i, err))
				continue
			}
			reqs.Dirs = append(reqs.Dirs, dirReq)
		default:
			errs = append(errs, fmt.Errorf("node %d: unknown node type %q", i, nodeType))
		}
	}
	return reqs, errors.Join(errs...)
}

// LoadRequestsFile reads and decodes a seed file, picking the format by extension
func LoadRequestsFile(path string, r *adapters.Registry) (*Requests, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return UnmarshalRequests(data, filepath.Ext(path), r)
}

// rawNodeList splits a seed document into one raw JSON message per node.
// YAML documents are re-encoded as JSON so both formats share one decoder.
func rawNodeList(data []byte, ext string) ([]json.RawMessage, error) {
	var rawNodes []json.RawMessage
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &rawNodes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal nodes: %w", err)
		}
	case ".yaml", ".yml":
		var nodes []any
		if err := yaml.Unmarshal(data, &nodes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal nodes: %w", err)
		}
		for _, node := range nodes {
			raw, err := json.Marshal(node)
			if err != nil {
				return nil, fmt.Errorf("failed to convert yaml node: %w", err)
			}
			rawNodes = append(rawNodes, raw)
		}
	default:
		return nil, fmt.Errorf("unknown nodes file extension: %q", ext)
	}
	return rawNodes, nil
}

func convertNodeDTO(dto NodeRequestDTO) treefs.NodeRequest {
	return treefs.NodeRequest{
		Path: dto.Path,
		Type: dto.Type,
		UUID: valueOrDefault(dto.UUID, uuid.NewString()),
	}
}

func valueOrDefault[T any](ptr *T, defaultVal T) T {
	if ptr != nil {
		return *ptr
	}
	return defaultVal
}
