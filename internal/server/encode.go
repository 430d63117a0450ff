package server

import (
	"net/http"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/MdSadiqMd/udp-sender/pkg/session"
)

const ContentTypeProtobuf = "application/x-protobuf"

func resultFields(r session.Result) map[string]any {
	hints := make([]any, 0, len(r.Hints))
	for _, h := range r.Hints {
		hints = append(hints, h)
	}
	return map[string]any{
		"id":          float64(r.ID),
		"result":      r.Text,
		"outcome":     r.Kind.String(),
		"state":       r.State.String(),
		"truncated":   r.Truncated,
		"hints":       hints,
		"target":      r.Target,
		"duration_ms": float64(r.Duration.Milliseconds()),
	}
}

// ResultStruct is the protobuf form of a send result.
func ResultStruct(r session.Result) (*structpb.Struct, error) {
	return structpb.NewStruct(resultFields(r))
}

func wantsProtobuf(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), ContentTypeProtobuf)
}

func writeResult(w http.ResponseWriter, r *http.Request, status int, result session.Result) {
	if !wantsProtobuf(r) {
		writeJSON(w, status, resultFields(result))
		return
	}

	st, err := ResultStruct(result)
	if err != nil {
		http.Error(w, "encode result: "+err.Error(), http.StatusInternalServerError)
		return
	}
	body, err := proto.Marshal(st)
	if err != nil {
		http.Error(w, "encode result: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", ContentTypeProtobuf)
	w.WriteHeader(status)
	w.Write(body)
}
