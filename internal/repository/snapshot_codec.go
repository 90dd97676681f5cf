package repository

import (
	"encoding/json"
	"fmt"

	"github.com/Rizviblue/rapid-courier-pro/internal/model"
)

// snapshotEnvelope は永続化フォーマット。
// versionはフォーマット変更時の互換判定に使う。
type snapshotEnvelope struct {
	Version int           `json:"version"`
	State   model.Session `json:"state"`
}

const snapshotVersion = 1

// encodeSnapshot はセッションをJSONにシリアライズする。
func encodeSnapshot(s model.Session) ([]byte, error) {
	b, err := json.Marshal(snapshotEnvelope{Version: snapshotVersion, State: s})
	if err != nil {
		return nil, fmt.Errorf("failed to encode session snapshot: %w", err)
	}
	return b, nil
}

// decodeSnapshot はJSONからセッションを復元する。
func decodeSnapshot(b []byte) (*model.Session, error) {
	var env snapshotEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("failed to decode session snapshot: %w", err)
	}
	if env.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported session snapshot version: %d", env.Version)
	}
	return &env.State, nil
}
