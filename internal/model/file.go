package model

import "time"

// FileType enumerates the accepted file kinds.
type FileType string

const (
	TypeFolder FileType = "folder"
	TypeFile   FileType = "file"
	TypeImage  FileType = "image"
)

// RootParentID is the sentinel parent for files created at the top level.
const RootParentID = "0"

// ValidType reports whether t is one of the accepted file kinds.
func ValidType(t FileType) bool {
	return t == TypeFolder || t == TypeFile || t == TypeImage
}

// File represents one node of a user's namespace: a folder, a regular file,
// or an image. LocalPath points into the content store for non-folder kinds
// and is never serialized to callers.
type File struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Type      FileType  `json:"type"`
	IsPublic  bool      `json:"isPublic"`
	ParentID  string    `json:"parentId"`
	LocalPath string    `json:"-"`
	CreatedAt time.Time `json:"-"`
}

// IsFolder reports whether the file carries no content of its own.
func (f *File) IsFolder() bool {
	return f.Type == TypeFolder
}
