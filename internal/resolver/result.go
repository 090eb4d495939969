package resolver

import "fmt"

// Outcome is the result category of a single ResolveAndMove call.
type Outcome int

const (
	// OutcomeIgnored means the path is not an eligible note (wrong extension,
	// a folder, or not a regular file). Nothing was touched.
	OutcomeIgnored Outcome = iota
	// OutcomeNoSource means no other note links to this one.
	OutcomeNoSource
	// OutcomeInPlace means the note already sits in its destination folder.
	OutcomeInPlace
	// OutcomeMoved means the note was moved.
	OutcomeMoved
	// OutcomeFailed means a storage operation failed; Result.Err says which.
	OutcomeFailed
)

var outcomeNames = map[Outcome]string{
	OutcomeIgnored:  "ignored",
	OutcomeNoSource: "no_source",
	OutcomeInPlace:  "in_place",
	OutcomeMoved:    "moved",
	OutcomeFailed:   "failed",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// MarshalText renders the outcome by name in JSON output.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Skip records a candidate note that could not be read during the scan.
type Skip struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Result describes what ResolveAndMove did.
type Result struct {
	Outcome Outcome `json:"outcome"`
	// Note is the normalized path the call was made with.
	Note string `json:"note"`
	// Reason explains OutcomeIgnored.
	Reason string `json:"reason,omitempty"`

	// Source is the first note found linking to Note.
	Source string `json:"source,omitempty"`
	// Link is the matched wikilink literal and Line its 1-based line in Source.
	Link string `json:"link,omitempty"`
	Line int    `json:"line,omitempty"`

	Folder        string `json:"folder,omitempty"`
	FolderCreated bool   `json:"folder_created,omitempty"`
	Destination   string `json:"destination,omitempty"`

	// Skipped lists candidates whose content could not be read.
	Skipped []Skip `json:"skipped,omitempty"`

	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`
}

// Moved reports whether the note was moved.
func (r Result) Moved() bool { return r.Outcome == OutcomeMoved }

// Failed reports whether the call ended in a storage failure.
func (r Result) Failed() bool { return r.Outcome == OutcomeFailed }

func (r Result) fail(err error) Result {
	r.Outcome = OutcomeFailed
	r.Err = err
	r.Error = err.Error()
	return r
}
