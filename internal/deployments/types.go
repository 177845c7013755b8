package deployments

import (
	"errors"
	"net/http"

	"github.com/google/go-github/v66/github"
)

// PageSize is the number of deployments requested per page
const PageSize = 100

// InactiveState is the deployment status state that deactivates a deployment
const InactiveState = "inactive"

// Record is the part of a GitHub deployment the cleanup needs
type Record struct {
	ID  int64
	Ref string
}

// IDs returns the deployment IDs in order
func IDs(records []Record) []int64 {
	ids := make([]int64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

func isNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode == http.StatusNotFound
	}
	return false
}
