package domain

// Image is the metadata of a file attached to a post.
// The bytes themselves live in blob storage at FilePath.
type Image struct {
	// ID is the unique identifier for the image, assigned on creation.
	ID int64 `json:"id"`

	// PostID references the owning Post.
	PostID int64 `json:"postId"`

	// OriginalFileName is the client-supplied name, returned on download.
	OriginalFileName string `json:"originalFileName"`

	// FilePath is where the blob backend stored the bytes.
	// Format: <root>/<authorID>/<postID>/<generated filename>
	FilePath string `json:"filePath"`
}

// Clone returns a copy that callers may keep without sharing store state.
func (i *Image) Clone() *Image {
	c := *i
	return &c
}

// ImageData is an image payload ready to be sent as a file attachment.
type ImageData struct {
	Data []byte
	Name string
}

// ImageFile is one uploaded file: its bytes and the name the client gave it.
type ImageFile struct {
	Name string
	Data []byte
}
