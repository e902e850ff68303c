package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/jonathan/recruit-tracker/internal/dashboard"
)

// cliIdentity is the session identity used by local commands.
var cliIdentity = dashboard.Identity{Name: "recruit_dash", Role: dashboard.RoleAdmin}

// openSession opens the store and loads one snapshot of it.
func openSession(ctx context.Context) (*dashboard.Session, error) {
	_, st, err := openStore(ctx, newLogger())
	if err != nil {
		return nil, err
	}
	return dashboard.NewSession(ctx, st, cliIdentity, st.Now())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
