package main

import (
	"context"
	"fmt"
	"os"

	"example.com/kiosk/internal/services/queue"
	"example.com/kiosk/pkg/guidance"
	queuePkg "example.com/kiosk/pkg/queue"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type enqueueOptions struct {
	redisURL string
	kioskID  string
	roomID   string
	guidance string
	language string
	name     string
}

func newEnqueueCmd(opts *options) *cobra.Command {
	eo := &enqueueOptions{}

	cmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Queue a guidance or room selection request for the worker",
		Long: `Queue a request on the shared Redis list.

With --room a room selection is queued and the worker forwards it to the chat
backend. Otherwise --guidance is queued and applied to the display directly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kioskID, err := uuid.Parse(eo.kioskID)
			if err != nil {
				return fmt.Errorf("invalid --kiosk: %w", err)
			}
			lang, err := guidance.ParseLanguage(eo.language)
			if err != nil {
				return err
			}

			var req *queuePkg.Request
			if eo.roomID != "" {
				reg, err := opts.registry()
				if err != nil {
					return err
				}
				room, ok := reg.Room(eo.roomID)
				if !ok {
					return fmt.Errorf("unknown room %q", eo.roomID)
				}
				req = queuePkg.NewRequest(queuePkg.RequestTypeRoomSelection, kioskID)
				req.RoomID = room.ID
				req.Message = guidance.RoomSelectionMessage(lang, room.Label, eo.guidance)
				req.Name = eo.name
			} else {
				req = queuePkg.NewRequest(queuePkg.RequestTypeGuidance, kioskID)
				req.Guidance = eo.guidance
			}
			req.Language = string(lang)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			client, err := queue.NewClient(ctx, eo.redisURL, quietLogger())
			if err != nil {
				return err
			}
			defer client.Close()

			rq := queue.NewRequestQueue(client)
			if err := rq.EnqueueRequest(ctx, req); err != nil {
				return err
			}
			depth, err := rq.RequestQueueDepth(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Enqueued %s request %s (queue depth %d)\n", req.Type, req.RequestID, depth)
			return nil
		},
	}

	defaultRedis := os.Getenv("REDIS_URL")
	if defaultRedis == "" {
		defaultRedis = "redis://localhost:6379/0"
	}

	f := cmd.Flags()
	f.StringVar(&eo.redisURL, "redis-url", defaultRedis, "Redis URL")
	f.StringVar(&eo.kioskID, "kiosk", "", "kiosk display id")
	f.StringVar(&eo.roomID, "room", "", "room id for a room selection")
	f.StringVar(&eo.guidance, "guidance", "", "guidance instruction")
	f.StringVar(&eo.language, "language", "fr", "fr, en or ar")
	f.StringVar(&eo.name, "name", "", "visitor name sent with a room selection")
	_ = cmd.MarkFlagRequired("kiosk")
	return cmd
}
