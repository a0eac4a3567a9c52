package schema

////////////////////////////////////////////////////////////////////////////////
// CONSTANTS

const (
	// Server-sent event names emitted while a note is saved with
	// attachments. Clients switch on these names to drive per-file UIs.

	// UploadStartEvent is sent once, after the files are staged and before
	// the note is stored. Payload: UploadStart
	UploadStartEvent = "start"

	// UploadResultEvent is sent after each staged file has been processed,
	// whether or not the upload succeeded. Payload: UploadResult
	UploadResultEvent = "result"

	// UploadErrorEvent is sent if the note itself cannot be stored. The
	// stream is closed immediately after. Payload: UploadError
	UploadErrorEvent = "error"

	// UploadDoneEvent is sent after the upload pass, just before the stream
	// is closed. Payload: NoteResponse
	UploadDoneEvent = "done"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// UploadStart is the payload for UploadStartEvent.
type UploadStart struct {
	// Files is the number of staged files.
	Files int `json:"files"`

	// Bytes is the sum of the staged file sizes.
	Bytes int64 `json:"bytes,omitempty"`
}

// UploadError is the payload for UploadErrorEvent.
type UploadError struct {
	Message string `json:"message"`
}
