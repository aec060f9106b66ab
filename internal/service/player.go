// internal/service/player.go
package service

import (
	"context"

	"go_course_keep/internal/middleware"
)

// StreamController は再生中のストリームへの制御コマンドを抽象化します。
// セキュリティシグナル受信時の強制停止で使う
type StreamController interface {
	Pause(ctx context.Context, streamURL string) error
}

// logStreamController は制御対象のプレイヤー基盤を持たない環境向けの実装です。
// 停止コマンドの発行をログに残すだけで常に成功する
type logStreamController struct{}

func NewLogStreamController() StreamController {
	return &logStreamController{}
}

func (c *logStreamController) Pause(ctx context.Context, streamURL string) error {
	logger := middleware.GetLogger(ctx)
	logger.Info("Pause command issued to stream", "stream_url", streamURL)
	return nil
}
