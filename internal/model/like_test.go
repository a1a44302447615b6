package model

import (
	"encoding/json"
	"testing"
)

// The two like payloads use different casings for the same flag: the
// toggle responds with `isliked`, the status read with `isLiked`.
// Clients depend on both, so the keys are pinned here.
func TestToggleResultWireKey(t *testing.T) {
	raw, err := json.Marshal(ToggleResult{IsLiked: true})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[string]json.RawMessage
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := out["isliked"]; !ok {
		t.Errorf("toggle payload missing isliked key: %s", raw)
	}
	if _, ok := out["isLiked"]; ok {
		t.Errorf("toggle payload must not use the status casing: %s", raw)
	}
}

func TestLikeStatusWireKeys(t *testing.T) {
	raw, err := json.Marshal(LikeStatus{IsLiked: true, LikeCount: 3})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[string]json.RawMessage
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := out["isLiked"]; !ok {
		t.Errorf("status payload missing isLiked key: %s", raw)
	}
	if _, ok := out["isliked"]; ok {
		t.Errorf("status payload must not use the toggle casing: %s", raw)
	}
	if _, ok := out["likeCount"]; !ok {
		t.Errorf("status payload missing likeCount key: %s", raw)
	}
}
