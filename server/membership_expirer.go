package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

func (s *Server) expireMemberships() {
	for {
		s.doExpireMemberships()
		time.Sleep(1 * time.Hour)
	}
}

func (s *Server) doExpireMemberships() {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	rows, err := s.DB.ExpireDueMemberships(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to expire due memberships", slog.Any("err", err))
		return
	}

	if rows > 0 {
		slog.InfoContext(ctx, "Expired memberships", slog.Int64("count", rows))
		s.SendNotification(ctx, fmt.Sprintf("Expired `%d` memberships", rows))
	}
}
