//go:generate mockery --name PlaybackService --output ./mocks --outpkg mocks --case=underscore
// internal/service/playback_service.go
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sync"
	"time"

	"go_course_keep/internal/config"
	"go_course_keep/internal/middleware"
	"go_course_keep/internal/model"
	"go_course_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ViewingSession はコース視聴画面1枚ぶんのサーバー側状態です。
// (user_id, course_id) ごとに1つで、画面のロードで生まれ、画面を離れると破棄される。
// フィールドへのアクセスはすべて mu で保護する
type ViewingSession struct {
	mu sync.Mutex

	userID   uuid.UUID
	courseID uuid.UUID
	course   *model.Course
	lessons  []*model.Lesson
	lessonIx map[uuid.UUID]*model.Lesson

	enrollment *model.Enrollment

	state          model.PlaybackState
	activeLessonID uuid.UUID // uuid.Nil なら未選択
	activeVideoURL string

	completion map[uuid.UUID]bool

	// セキュリティモニタの状態。violationCount はこのセッション内の累積
	warning        *model.IncidentEvent
	violationCount int

	// completedNotified が true の間はコース完了イベントを再発火しない
	completedNotified bool
	closed            bool
}

func (v *ViewingSession) UserID() uuid.UUID   { return v.userID }
func (v *ViewingSession) CourseID() uuid.UUID { return v.courseID }

func (v *ViewingSession) CourseTitle() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.course == nil {
		return ""
	}
	return v.course.Title
}

// derivePercentLocked は完了マップからコース全体の進捗率を導出します。
// 保存値は信用せず、表示のたびに完了レッスン数から計算し直す
func (v *ViewingSession) derivePercentLocked() int {
	if len(v.lessons) == 0 {
		return 0
	}
	done := 0
	for _, lesson := range v.lessons {
		if v.completion[lesson.LessonID] {
			done++
		}
	}
	return int(math.Round(float64(done) * 100 / float64(len(v.lessons))))
}

func (v *ViewingSession) playbackViewLocked() model.PlaybackView {
	view := model.PlaybackView{
		State:          v.state,
		ActiveVideoURL: v.activeVideoURL,
		ViolationCount: v.violationCount,
	}
	if v.activeLessonID != uuid.Nil {
		id := v.activeLessonID
		view.ActiveLessonID = &id
	}
	if v.warning != nil {
		w := *v.warning
		view.Warning = &w
	}
	return view
}

func (v *ViewingSession) completionSnapshotLocked() map[uuid.UUID]bool {
	snapshot := make(map[uuid.UUID]bool, len(v.completion))
	for id, done := range v.completion {
		snapshot[id] = done
	}
	return snapshot
}

// localCompletion はレッスン完了のローカル判定結果のスナップショット
type localCompletion struct {
	unknownLesson    bool
	alreadyCompleted bool
	completionMap    map[uuid.UUID]bool
	percent          int
	completed        bool
	// completedEvent はこの操作で初めて100%に到達したときだけ true になる
	completedEvent bool
}

// markCompletedLocally は完了マップを楽観的に更新し、更新後の状態を返します。
// 完了済みレッスンへの再操作は何も変更しない (冪等)
func (v *ViewingSession) markCompletedLocally(lessonID uuid.UUID) localCompletion {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.lessonIx[lessonID]; !ok {
		return localCompletion{unknownLesson: true}
	}
	if v.completion[lessonID] {
		return localCompletion{
			alreadyCompleted: true,
			completionMap:    v.completionSnapshotLocked(),
			percent:          v.derivePercentLocked(),
			completed:        v.derivePercentLocked() >= 100,
		}
	}

	v.completion[lessonID] = true
	percent := v.derivePercentLocked()
	completed := percent >= 100

	event := false
	if completed && !v.completedNotified {
		v.completedNotified = true
		event = true
	}

	return localCompletion{
		completionMap:  v.completionSnapshotLocked(),
		percent:        percent,
		completed:      completed,
		completedEvent: event,
	}
}

type sessionKey struct {
	userID   uuid.UUID
	courseID uuid.UUID
}

type PlaybackService interface {
	// OpenSession は視聴セッションを作成 (既存があれば作り直し) し、画面の初期状態を返します
	OpenSession(ctx context.Context, userID, courseID uuid.UUID) (*model.CourseDetailResponse, error)
	// Session は既存の視聴セッションを返します。なければ model.ErrSessionNotFound
	Session(userID, courseID uuid.UUID) (*ViewingSession, error)
	SelectLesson(ctx context.Context, userID, courseID, lessonID uuid.UUID) (*model.PlaybackView, error)
	// HandleSecuritySignal は再生を強制停止して違反を加算し、インシデントを非同期で記録します
	HandleSecuritySignal(ctx context.Context, userID, courseID uuid.UUID, event model.IncidentEvent) (*model.PlaybackView, error)
	AcknowledgeWarning(ctx context.Context, userID, courseID uuid.UUID) (*model.PlaybackView, error)
	// MarkEnrolled は受講登録の成功をセッションに反映します (セッションがなければ何もしない)
	MarkEnrolled(userID, courseID uuid.UUID)
	// CloseSession はセッションを破棄します。存在しなくてもエラーにしない
	CloseSession(ctx context.Context, userID, courseID uuid.UUID)
}

type playbackService struct {
	db           *gorm.DB
	courseSvc    CourseService
	entitlement  EntitlementService
	incidentRepo repository.IncidentRepository
	stream       StreamController
	appCfg       *config.AppConfig

	mu       sync.Mutex
	sessions map[sessionKey]*ViewingSession
}

func NewPlaybackService(
	db *gorm.DB,
	courseSvc CourseService,
	entitlement EntitlementService,
	incidentRepo repository.IncidentRepository,
	stream StreamController,
	appCfg *config.AppConfig,
) PlaybackService {
	return &playbackService{
		db:           db,
		courseSvc:    courseSvc,
		entitlement:  entitlement,
		incidentRepo: incidentRepo,
		stream:       stream,
		appCfg:       appCfg,
		sessions:     make(map[sessionKey]*ViewingSession),
	}
}

func (s *playbackService) OpenSession(ctx context.Context, userID, courseID uuid.UUID) (*model.CourseDetailResponse, error) {
	logger := middleware.GetLogger(ctx)

	parts, err := s.courseSvc.LoadCourseDetail(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	sess := &ViewingSession{
		userID:     userID,
		courseID:   courseID,
		course:     parts.Course,
		lessons:    parts.Lessons,
		lessonIx:   make(map[uuid.UUID]*model.Lesson, len(parts.Lessons)),
		enrollment: parts.Enrollment,
		state:      model.PlaybackLocked,
		completion: make(map[uuid.UUID]bool, len(parts.Progresses)),
	}
	for _, lesson := range parts.Lessons {
		sess.lessonIx[lesson.LessonID] = lesson
	}
	for _, p := range parts.Progresses {
		if p.Completed {
			sess.completion[p.SyllabusID] = true
		}
	}
	// 画面を開いた時点で既に100%なら、このセッションでは完了イベントを発火させない
	sess.completedNotified = sess.derivePercentLocked() >= 100

	// 先頭レッスンを初期選択。視聴不可ならロック状態で選択だけ保持する
	if len(parts.Lessons) > 0 {
		first := parts.Lessons[0]
		sess.activeLessonID = first.LessonID
		if s.entitlement.CanPlay(first, sess.enrollment) {
			sess.state = model.PlaybackReady
			sess.activeVideoURL = first.VideoURL
		}
	}

	// 既存セッションは作り直す (画面の再ロード)。violationCount もリセットされる
	key := sessionKey{userID: userID, courseID: courseID}
	s.mu.Lock()
	s.sessions[key] = sess
	s.mu.Unlock()

	logger.Info("Viewing session opened",
		"user_id", userID.String(),
		"course_id", courseID.String(),
		"lessons", len(parts.Lessons),
		"enrolled", sess.enrollment != nil,
	)

	return s.buildDetailResponse(sess), nil
}

func (s *playbackService) buildDetailResponse(sess *ViewingSession) *model.CourseDetailResponse {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	syllabus := make([]model.LessonView, 0, len(sess.lessons))
	for _, lesson := range sess.lessons {
		syllabus = append(syllabus, model.LessonView{
			Lesson:    *lesson,
			Playable:  s.entitlement.CanPlay(lesson, sess.enrollment),
			Completed: sess.completion[lesson.LessonID],
		})
	}

	percent := sess.derivePercentLocked()
	return &model.CourseDetailResponse{
		Course:          sess.course,
		Syllabus:        syllabus,
		Enrolled:        sess.enrollment != nil && sess.enrollment.Enrolled,
		CompletionMap:   sess.completionSnapshotLocked(),
		ProgressPercent: percent,
		Completed:       percent >= 100,
		Playback:        sess.playbackViewLocked(),
	}
}

func (s *playbackService) Session(userID, courseID uuid.UUID) (*ViewingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionKey{userID: userID, courseID: courseID}]
	if !ok {
		return nil, model.NewAppError("SESSION_NOT_FOUND", "視聴セッションがありません。コース画面を開き直してください。", "", model.ErrSessionNotFound)
	}
	return sess, nil
}

func (s *playbackService) SelectLesson(ctx context.Context, userID, courseID, lessonID uuid.UUID) (*model.PlaybackView, error) {
	logger := middleware.GetLogger(ctx)

	sess, err := s.Session(userID, courseID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	// 警告が未確認の間は再生操作を受け付けない
	if sess.state == model.PlaybackBlocked {
		return nil, model.NewAppError("SECURITY_BLOCKED", "セキュリティ警告を確認するまで再生できません。", "", model.ErrSecurityBlocked)
	}

	lesson, ok := sess.lessonIx[lessonID]
	if !ok {
		return nil, model.NewAppError("LESSON_NOT_FOUND", "レッスンが見つかりません。", "", model.ErrNotFound)
	}

	if !s.entitlement.CanPlay(lesson, sess.enrollment) {
		// 選択状態は変更しない。現在の再生はそのまま続く
		return nil, model.NewAppError("LESSON_LOCKED", "受講登録すると全てのレッスンを視聴できます。", "", model.ErrLessonLocked)
	}

	sess.state = model.PlaybackReady
	sess.activeLessonID = lesson.LessonID
	sess.activeVideoURL = lesson.VideoURL

	logger.Info("Lesson selected",
		"user_id", userID.String(),
		"course_id", courseID.String(),
		"lesson_id", lessonID.String(),
	)

	view := sess.playbackViewLocked()
	return &view, nil
}

func (s *playbackService) HandleSecuritySignal(ctx context.Context, userID, courseID uuid.UUID, event model.IncidentEvent) (*model.PlaybackView, error) {
	logger := middleware.GetLogger(ctx)

	sess, err := s.Session(userID, courseID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	// 1. 先にストリームを停止してから状態を遷移させる (停止が先、が不変条件)
	if sess.activeVideoURL != "" {
		if perr := s.stream.Pause(ctx, sess.activeVideoURL); perr != nil {
			logger.Warn("Failed to pause active stream", "error", perr, "stream_url", sess.activeVideoURL)
		}
	}

	// 2. 状態遷移と違反カウント。カウントはN回目なら表示もN
	sess.state = model.PlaybackBlocked
	sess.violationCount++
	ev := event
	sess.warning = &ev
	count := sess.violationCount
	view := sess.playbackViewLocked()
	sess.mu.Unlock()

	logger.Warn("Security signal received, playback blocked",
		"user_id", userID.String(),
		"course_id", courseID.String(),
		"event", string(event),
		"violation_count", count,
	)

	// 3. インシデント記録は非同期・ベストエフォート。失敗しても画面遷移には影響させない
	s.recordIncidentAsync(logger, userID, courseID, event, count)

	return &view, nil
}

func (s *playbackService) recordIncidentAsync(logger *slog.Logger, userID, courseID uuid.UUID, event model.IncidentEvent, count int) {
	details, err := json.Marshal(model.IncidentDetails{
		Timestamp:      time.Now(),
		ViolationCount: count,
	})
	if err != nil {
		logger.Error("Failed to marshal incident details", "error", err)
		return
	}

	incident := &model.SecurityIncident{
		IncidentID: uuid.New(),
		UserID:     userID,
		CourseID:   courseID,
		Event:      event,
		Details:    datatypes.JSON(details),
	}

	timeout := time.Duration(s.appCfg.IncidentWriteTimeoutSec) * time.Second
	go func() {
		// リクエストのコンテキストとは切り離す (レスポンス返却後も書き込みは続く)
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := s.incidentRepo.Create(ctx, s.db, incident); err != nil {
			logger.Error("Failed to record security incident",
				"error", err,
				"user_id", userID.String(),
				"course_id", courseID.String(),
				"event", string(event),
			)
		}
	}()
}

func (s *playbackService) AcknowledgeWarning(ctx context.Context, userID, courseID uuid.UUID) (*model.PlaybackView, error) {
	logger := middleware.GetLogger(ctx)

	sess, err := s.Session(userID, courseID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.warning = nil
	if sess.state == model.PlaybackBlocked {
		// 視聴可能なレッスンを選択していた場合はそこへ復帰する
		if sess.activeVideoURL != "" {
			sess.state = model.PlaybackReady
		} else {
			sess.state = model.PlaybackLocked
		}
	}

	logger.Info("Security warning acknowledged",
		"user_id", userID.String(),
		"course_id", courseID.String(),
		"state", string(sess.state),
	)

	view := sess.playbackViewLocked()
	return &view, nil
}

func (s *playbackService) MarkEnrolled(userID, courseID uuid.UUID) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionKey{userID: userID, courseID: courseID}]
	s.mu.Unlock()
	if !ok {
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.enrollment == nil {
		sess.enrollment = &model.Enrollment{
			UserID:   userID,
			CourseID: courseID,
			Enrolled: true,
		}
		return
	}
	sess.enrollment.Enrolled = true
}

func (s *playbackService) CloseSession(ctx context.Context, userID, courseID uuid.UUID) {
	logger := middleware.GetLogger(ctx)

	key := sessionKey{userID: userID, courseID: courseID}
	s.mu.Lock()
	sess, ok := s.sessions[key]
	if ok {
		delete(s.sessions, key)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	sess.mu.Lock()
	sess.closed = true
	sess.state = model.PlaybackLocked
	sess.activeLessonID = uuid.Nil
	sess.activeVideoURL = ""
	sess.mu.Unlock()

	logger.Info("Viewing session closed",
		"user_id", userID.String(),
		"course_id", courseID.String(),
	)
}
