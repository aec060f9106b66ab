// internal/service/notifier.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"go_course_keep/internal/config"
	"go_course_keep/internal/middleware"

	"github.com/google/uuid"
)

// CompletionNotifier はコース完了イベントを通知基盤へ中継します。
// 配送はベストエフォートで、失敗しても進捗処理には影響させない
type CompletionNotifier interface {
	CourseCompleted(ctx context.Context, userID, courseID uuid.UUID, courseTitle string)
}

type mailCompletionNotifier struct {
	mailer Mailer
	to     string
}

func NewCompletionNotifier(cfg *config.Config) CompletionNotifier {
	return &mailCompletionNotifier{
		mailer: NewMailer(cfg),
		to:     cfg.Notifier.To,
	}
}

func (n *mailCompletionNotifier) CourseCompleted(ctx context.Context, userID, courseID uuid.UUID, courseTitle string) {
	logger := middleware.GetLogger(ctx)
	if n.to == "" {
		logger.Warn("Notifier destination is not configured, skipping course completion notification",
			"course_id", courseID.String(),
		)
		return
	}

	subject := fmt.Sprintf("コース完了: %s", courseTitle)
	body := fmt.Sprintf("user_id=%s が course_id=%s (%s) を完了しました。", userID.String(), courseID.String(), courseTitle)

	// 配送はリクエストをブロックしない
	go func() {
		if err := n.mailer.Send(context.Background(), n.to, subject, body); err != nil {
			slog.Default().Error("Failed to deliver course completion notification",
				"error", err,
				"user_id", userID.String(),
				"course_id", courseID.String(),
			)
		}
	}()
}
