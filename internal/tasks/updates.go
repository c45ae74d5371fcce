package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchCollections Phase = iota
	FetchDetails
	ExportCollection
	FetchProfile
)

func (p Phase) String() string {
	switch p {
	case FetchCollections:
		return "fetch_collections"
	case FetchDetails:
		return "fetch_details"
	case ExportCollection:
		return "export_collection"
	case FetchProfile:
		return "fetch_profile"
	default:
		return ""
	}
}

func fetchingCollectionsUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCollections,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Preparing %d collection(s) for export...", total),
	}
}

func fetchDetailsUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching movie details for %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportCollection,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportCollection,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func profileSourceUpdate(step, total int, res SourceResult) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] %s: %d", step, total, res.Source, res.Count)
	if res.Err != nil {
		msg = fmt.Sprintf("[%d/%d] %s: %v", step, total, res.Source, res.Err)
	}
	return ProgressUpdate{
		Phase:   FetchProfile,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    res,
	}
}
