package webutil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/retra-de/retra-go-sdk/pkg/logutil"
)

// RespondJSON sets the proper content type and sends the given data as JSON to
// the client.
func RespondJSON(w http.ResponseWriter, data any) {
	RespondJSONWithStatus(w, http.StatusOK, data)
}

// RespondJSONWithStatus sends the given data as JSON with an explicit status
// code.
func RespondJSONWithStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")

	err := enc.Encode(data)
	if err != nil {
		slog.Error("failed to encode response", logutil.Exception(err))
	}
}

// RespondError sends an error ID to the client and logs the error, if it is
// not nil. It returns true, if the error was not nil. This makes it possible
// to do condensed error checking:
//
//	err := DoSomething()
//	if webutil.RespondError(w, r, err) {
//	    return
//	}
//
// The client only sees the ID and not the error itself, the ID links the
// response to the log record.
func RespondError(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}

	id := uuid.New()

	slog.ErrorContext(r.Context(), "failed to handle request",
		slog.String("error_id", id.String()),
		logutil.Exception(err),
	)

	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprintf(w, "ERROR: %s", id.String())
	return true
}
