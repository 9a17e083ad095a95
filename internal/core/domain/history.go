package domain

// HistoryItem is one persisted analysis record.
// Items are created only as a side effect of a successful analysis,
// mutated only through Apply, and destroyed only through deletion.
type HistoryItem struct {
	// ID is unique within a store snapshot and stable across reads.
	ID string `json:"id"`

	// ImageURI references the source image. Empty when the record
	// came from a remote source that does not retain images.
	ImageURI string `json:"imageUri"`

	Description   string `json:"description"`
	ExtractedText string `json:"extractedText"`
	Summary       string `json:"summary"`
	Label         string `json:"label"`

	// Timestamp is the creation time in milliseconds since epoch.
	// Canonical ordering is newest first.
	Timestamp int64 `json:"timestamp"`

	// EditedExtractedText and EditedSummary hold user corrections.
	EditedExtractedText *string `json:"editedExtractedText,omitempty"`
	EditedSummary       *string `json:"editedSummary,omitempty"`

	// IsEdited becomes true once any edit differs from the original
	// text or summary. It never resets to false.
	IsEdited bool `json:"isEdited,omitempty"`

	// Liked is the user feedback tri-state: true, false, or absent.
	Liked *bool `json:"liked,omitempty"`
}

// HistoryPatch describes a partial update to a HistoryItem.
// Nil pointer fields are left untouched.
type HistoryPatch struct {
	EditedExtractedText *string
	EditedSummary       *string

	// Liked sets the feedback value. ClearLiked removes it; when
	// ClearLiked is true, Liked is ignored.
	Liked      *bool
	ClearLiked bool
}

// IsZero reports whether the patch changes nothing.
func (p HistoryPatch) IsZero() bool {
	return p.EditedExtractedText == nil && p.EditedSummary == nil &&
		p.Liked == nil && !p.ClearLiked
}

// Apply merges the patch into the item. IsEdited is recomputed as true
// when either edited field differs from the corresponding original,
// OR-ed with any previously true value so it never regresses.
func (i *HistoryItem) Apply(p HistoryPatch) {
	if p.EditedExtractedText != nil {
		i.EditedExtractedText = p.EditedExtractedText
	}
	if p.EditedSummary != nil {
		i.EditedSummary = p.EditedSummary
	}
	switch {
	case p.ClearLiked:
		i.Liked = nil
	case p.Liked != nil:
		i.Liked = p.Liked
	}

	edited := i.IsEdited
	if i.EditedExtractedText != nil && *i.EditedExtractedText != i.ExtractedText {
		edited = true
	}
	if i.EditedSummary != nil && *i.EditedSummary != i.Summary {
		edited = true
	}
	i.IsEdited = edited
}

// DisplayText returns the user-corrected transcription when present,
// falling back to the original.
func (i *HistoryItem) DisplayText() string {
	if i.EditedExtractedText != nil {
		return *i.EditedExtractedText
	}
	return i.ExtractedText
}

// DisplaySummary returns the user-corrected summary when present,
// falling back to the original.
func (i *HistoryItem) DisplaySummary() string {
	if i.EditedSummary != nil {
		return *i.EditedSummary
	}
	return i.Summary
}
