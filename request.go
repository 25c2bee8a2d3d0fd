package treefs

// NodeRequest has common fields embedded in concrete request types
type NodeRequest struct {
	Path string
	Type NodeCreateRequestType
	UUID string // Identifies the request in logs; generated when not supplied
}

// NodeCreateRequestType valid types are FileNodeType "file", DirNodeType "dir"
type NodeCreateRequestType string

const (
	FileNodeType NodeCreateRequestType = "file"
	DirNodeType  NodeCreateRequestType = "dir"
)

// FileSource pairs a provider with the raw source config it should load
type FileSource struct {
	Provider ContentProvider
	Type     string
	Config   []byte
}

// FileCreateRequest creates a File with either inline Content or content
// resolved from Source, never both
type FileCreateRequest struct {
	NodeRequest
	Content string
	Source  *FileSource
}

type DirCreateRequest struct {
	NodeRequest
}
