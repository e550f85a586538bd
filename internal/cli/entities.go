// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// entities.go - The "entities" command.
//
// Command: entities
// Short:   List mention candidates
// Aliases: mentions, e
//
// Examples:
//   composer entities                      Every candidate
//   composer entities hu                   Candidates whose name starts with "hu"
//   composer entities --seed people.yaml   Candidates from a seed file
//   composer entities b --limit 2 --json   First two matches as JSON

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jeranaias/composer-tui/internal/config"
	"github.com/jeranaias/composer-tui/internal/entity"
	"github.com/jeranaias/composer-tui/internal/mention"
)

// entitiesTimeout bounds one provider query.
const entitiesTimeout = 5 * time.Second

// HandleEntities handles the "entities" command.
func HandleEntities(ctx context.Context, args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	rt, err := NewRuntime(ctx, cfg, RuntimeOptions{LogOutput: io.Discard, MentionsOnly: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	return listEntities(ctx, os.Stdout, rt.Provider, cfg, args)
}

func listEntities(ctx context.Context, w io.Writer, p mention.Provider, cfg *config.Config, args Args) error {
	ctx, cancel := context.WithTimeout(ctx, entitiesTimeout)
	defer cancel()

	list, err := p.Filter(ctx, args.Query)
	if err != nil {
		return NewCommandError("entities", "filter", "mention provider failed", err)
	}
	if args.Limit > 0 && len(list) > args.Limit {
		list = list[:args.Limit]
	}

	if args.JSON {
		data := EntitiesData{
			Query:    args.Query,
			Source:   cfg.Mentions.Source,
			Count:    len(list),
			Entities: make([]EntityData, 0, len(list)),
		}
		for _, e := range list {
			data.Entities = append(data.Entities, EntityData{
				ID:         e.ID,
				Name:       e.DisplayName,
				Display:    p.GetDisplay(e),
				ObjectType: e.ObjectType.String(),
				Members:    memberNames(e),
			})
		}
		return NewJSONResponse("entities", data).Write(w)
	}

	if len(list) == 0 {
		if !args.Quiet {
			fmt.Fprintf(w, "%s no candidates match %q\n", WarningStyle.Render("[!]"), args.Query)
		}
		return nil
	}

	for _, e := range list {
		fmt.Fprintln(w, p.RenderSuggestion(e, mention.SuggestionState{}).Render)
	}
	if !args.Quiet {
		fmt.Fprintln(w, DimStyle.Render(fmt.Sprintf("%d found (source: %s)", len(list), cfg.Mentions.Source)))
	}
	return nil
}

// memberNames lists the display names of a group's members.
func memberNames(e entity.Entity) []string {
	if !e.HasMembers() {
		return nil
	}
	members, err := entity.DecodeMembers(e.Items)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.DisplayName)
	}
	return names
}
