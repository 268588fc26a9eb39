package proxy

import (
	"encoding/json"
	"net/http"
)

type modelObject struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
	Route   string `json:"route"`
}

type modelList struct {
	Object string        `json:"object"`
	Data   []modelObject `json:"data"`
}

// listModels answers from the model index alone; no backend is started.
func (s *Service) listModels(w http.ResponseWriter, _ *http.Request) {
	entries := s.catalog.Models()
	list := modelList{Object: "list", Data: make([]modelObject, 0, len(entries))}
	for _, e := range entries {
		list.Data = append(list.Data, modelObject{
			ID:      e.ID,
			Object:  "model",
			OwnedBy: e.OwnedBy,
			Route:   e.Route,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}
