package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	mrand "math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"realguess/cache"
	"realguess/catalog"
	"realguess/logger"
	"realguess/models"
	"realguess/repository"
)

const (
	scorePerCorrectGuess = 10
	gameCodeLength       = 8
)

// errFinishSuperseded aborts the finish transaction when a concurrent
// finish completed the session first. It never leaves this package.
var errFinishSuperseded = errors.New("session completed by a concurrent finish")

// GameService orchestrates the session lifecycle: balanced game creation,
// join-by-code, guess scoring and completion. The repository is
// authoritative for every invariant; the session cache only saves
// round-trips while a game is in progress.
type GameService struct {
	db      *gorm.DB
	repo    *repository.GameRepository
	users   *repository.UserRepository
	catalog catalog.Client
	cache   cache.SessionCache
	expiry  time.Duration
}

func NewGameService(
	db *gorm.DB,
	repo *repository.GameRepository,
	users *repository.UserRepository,
	imageCatalog catalog.Client,
	sessionCache cache.SessionCache,
	expiry time.Duration,
) *GameService {
	return &GameService{
		db:      db,
		repo:    repo,
		users:   users,
		catalog: imageCatalog,
		cache:   sessionCache,
		expiry:  expiry,
	}
}

type CreateGameRequest struct {
	ImageCount   int    `json:"imageCount" binding:"required,min=1"`
	Mode         string `json:"mode"`
	CallerUserID string `json:"callerUserId" binding:"required"`
}

type JoinGameRequest struct {
	GameCode     string `json:"gameCode" binding:"required"`
	CallerUserID string `json:"callerUserId" binding:"required"`
}

type RandomJoinRequest struct {
	CallerUserID string `json:"callerUserId" binding:"required"`
}

type GuessSubmission struct {
	URL       string `json:"url" binding:"required"`
	Guess     string `json:"guess" binding:"required,oneof=real ai"`
	TimeTaken int    `json:"timeTaken"` // seconds spent on this image
	Feedback  string `json:"feedback"`
	X         *int   `json:"x"`
	Y         *int   `json:"y"`
}

type FinishGameRequest struct {
	GameID       string            `json:"gameId" binding:"required"`
	CallerUserID string            `json:"callerUserId" binding:"required"`
	UserGuesses  []GuessSubmission `json:"userGuesses"`
}

type GameImage struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

type CreateGameResult struct {
	GameID   string      `json:"gameId"`
	GameCode string      `json:"gameCode"`
	Images   []GameImage `json:"images"`
}

type JoinResult struct {
	SessionID string      `json:"sessionId"`
	GameID    string      `json:"gameId"`
	Images    []GameImage `json:"images"`
}

type FinishResult struct {
	Score          int `json:"score"`
	CorrectGuesses int `json:"correctGuesses"`
	TotalGuesses   int `json:"totalGuesses"`
	TimeTaken      int `json:"timeTaken"`
}

type GameDetails struct {
	GameID   string      `json:"gameId"`
	GameCode string      `json:"gameCode,omitempty"`
	Status   string      `json:"status"`
	Images   []GameImage `json:"images"`
}

// InitializeClassicGame creates a game with a balanced image set: half real,
// half ai, with the extra image going to real when the count is odd. The
// returned order is shuffled so creation order never leaks categories.
func (s *GameService) InitializeClassicGame(ctx context.Context, req *CreateGameRequest) (*CreateGameResult, error) {
	user, err := s.users.ByID(ctx, req.CallerUserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	realCount := (req.ImageCount + 1) / 2
	aiCount := req.ImageCount / 2

	realImages, err := s.catalog.Sample(ctx, models.ImageTypeReal, realCount)
	if err != nil {
		return nil, err
	}
	aiImages, err := s.catalog.Sample(ctx, models.ImageTypeAI, aiCount)
	if err != nil {
		return nil, err
	}

	refs := append(realImages, aiImages...)
	mrand.Shuffle(len(refs), func(i, j int) {
		refs[i], refs[j] = refs[j], refs[i]
	})

	mode := req.Mode
	if mode == "" {
		mode = "classic"
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.expiry)
	game := &models.Game{
		ID:        uuid.NewString(),
		Mode:      mode,
		Board:     "classic",
		Status:    models.GameStatusActive,
		CreatedBy: user.ID,
		ExpiresAt: &expiresAt,
	}

	imageIDs := make([]uint, len(refs))
	for i, ref := range refs {
		imageIDs[i] = ref.ID
	}

	code, err := s.repo.CreateGameWithImages(ctx, game, imageIDs, newGameCode)
	if err != nil {
		return nil, err
	}

	logger.L().Info("game created",
		zap.String("game_id", game.ID),
		zap.String("user_id", user.ID),
		zap.Int("image_count", len(refs)),
	)

	return &CreateGameResult{
		GameID:   game.ID,
		GameCode: code,
		Images:   toGameImages(refs),
	}, nil
}

// JoinByCode resolves a shareable code and opens a session for the caller.
// Expiry is enforced lazily: an overdue game is flipped to expired as a side
// effect of this read before the join is rejected.
func (s *GameService) JoinByCode(ctx context.Context, req *JoinGameRequest) (*JoinResult, error) {
	game, err := s.repo.GameByCode(ctx, req.GameCode)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	if err := s.ensurePlayable(ctx, game); err != nil {
		return nil, err
	}
	return s.join(ctx, game, req.CallerUserID)
}

// JoinRandom picks any currently playable game and runs the normal join
// flow against it.
func (s *GameService) JoinRandom(ctx context.Context, req *RandomJoinRequest) (*JoinResult, error) {
	game, err := s.repo.RandomActiveGame(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrNoPlayableGames
	}
	return s.join(ctx, game, req.CallerUserID)
}

func (s *GameService) join(ctx context.Context, game *models.Game, userID string) (*JoinResult, error) {
	existing, err := s.repo.SessionFor(ctx, game.ID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, sessionConflict(existing)
	}

	session := &models.UserGameSession{
		ID:        uuid.NewString(),
		GameID:    game.ID,
		UserID:    userID,
		Status:    models.SessionStatusActive,
		StartTime: time.Now().UTC(),
	}

	// Session insert and image load commit together: a failed image read
	// must not strand a session the caller never got images for.
	var refs []catalog.Ref
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewGameRepository(tx)
		if err := repo.CreateSession(ctx, session); err != nil {
			return err
		}
		var loadErr error
		refs, loadErr = repo.GameImages(ctx, game.ID)
		return loadErr
	})
	if err != nil {
		// A concurrent join won the unique-index race; report the conflict
		// the loser would have seen had it looked first.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			raced, lookupErr := s.repo.SessionFor(ctx, game.ID, userID)
			if lookupErr == nil && raced != nil {
				return nil, sessionConflict(raced)
			}
			return nil, ErrSessionAlreadyActive
		}
		return nil, err
	}

	if err := s.cache.Put(ctx, &cache.Entry{
		SessionID: session.ID,
		GameID:    game.ID,
		UserID:    userID,
		StartTime: session.StartTime,
		Images:    refs,
	}); err != nil {
		logger.L().Warn("failed to seed session cache", zap.Error(err), zap.String("game_id", game.ID))
	}

	return &JoinResult{
		SessionID: session.ID,
		GameID:    game.ID,
		Images:    toGameImages(refs),
	}, nil
}

// FinishClassicGame accepts the full guess batch, scores it and finalizes
// the session. Finishing without a prior join is tolerated: a session is
// created on the spot with the clock starting now. A second finish for a
// completed session returns the stored result unchanged; the scoring math
// never reruns. Guess rows, completion and the stats update commit in one
// transaction, so a failed finish leaves nothing behind and a retry starts
// clean.
func (s *GameService) FinishClassicGame(ctx context.Context, req *FinishGameRequest) (*FinishResult, error) {
	game, err := s.repo.GameByID(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}

	// Lazy expiry applies on this read path too; an overdue game is flipped
	// before the finish is served. The finish itself still goes through so a
	// player who started in time keeps their result.
	if game.Status == models.GameStatusActive && game.Expired(time.Now().UTC()) {
		if err := s.repo.MarkGameExpired(ctx, game.ID); err != nil {
			return nil, err
		}
		game.Status = models.GameStatusExpired
	}

	session, err := s.repo.SessionFor(ctx, game.ID, req.CallerUserID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = &models.UserGameSession{
			ID:        uuid.NewString(),
			GameID:    game.ID,
			UserID:    req.CallerUserID,
			Status:    models.SessionStatusActive,
			StartTime: time.Now().UTC(),
		}
		if err := s.repo.CreateSession(ctx, session); err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, err
			}
			session, err = s.repo.SessionFor(ctx, game.ID, req.CallerUserID)
			if err != nil {
				return nil, err
			}
			if session == nil {
				return nil, errors.New("session vanished after create race")
			}
		}
		logger.L().Info("finish without prior join, session created defensively",
			zap.String("game_id", game.ID),
			zap.String("user_id", req.CallerUserID),
		)
	}
	if session.Status == models.SessionStatusCompleted {
		return storedResult(session), nil
	}

	refs, err := s.sessionImages(ctx, game.ID, req.CallerUserID)
	if err != nil {
		return nil, err
	}
	byPath := make(map[string]catalog.Ref, len(refs))
	for _, ref := range refs {
		byPath[catalog.NormalizePath(ref.URL)] = ref
	}

	type scoredGuess struct {
		guess    *models.UserGuess
		feedback *models.GuessFeedback
	}

	var correct, total int
	scored := make([]scoredGuess, 0, len(req.UserGuesses))
	for _, submission := range req.UserGuesses {
		ref, ok := byPath[catalog.NormalizePath(submission.URL)]
		if !ok {
			// One bad reference must not abort the whole batch.
			logger.L().Warn("skipping unresolvable guess",
				zap.String("url", submission.URL),
				zap.String("game_id", game.ID),
			)
			continue
		}

		isCorrect := submission.Guess == ref.Type
		guess := &models.UserGuess{
			ID:          uuid.NewString(),
			SessionID:   session.ID,
			ImageID:     ref.ID,
			UserID:      req.CallerUserID,
			GuessType:   submission.Guess,
			IsCorrect:   isCorrect,
			TimeTaken:   submission.TimeTaken,
			SubmittedAt: time.Now().UTC(),
		}

		var feedback *models.GuessFeedback
		if submission.Feedback != "" || (submission.X != nil && submission.Y != nil) {
			feedback = &models.GuessFeedback{
				ID:      uuid.NewString(),
				Message: submission.Feedback,
			}
			if submission.X != nil {
				feedback.X = *submission.X
			}
			if submission.Y != nil {
				feedback.Y = *submission.Y
			}
		}

		scored = append(scored, scoredGuess{guess: guess, feedback: feedback})
		total++
		if isCorrect {
			correct++
		}
	}

	now := time.Now().UTC()
	session.CompletionTime = &now
	session.FinalScore = correct * scorePerCorrectGuess
	session.CorrectGuesses = correct
	session.TotalGuesses = total
	session.TimeTaken = int(now.Sub(session.StartTime).Seconds())

	// Guess rows, completion and the stats update are one atomic unit.
	// Losing the completion race rolls everything back, so the loser's
	// guesses never land next to the winner's.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewGameRepository(tx)
		stats := NewStatsService(repository.NewUserRepository(tx))

		for _, sg := range scored {
			if err := repo.SaveGuess(ctx, sg.guess, sg.feedback); err != nil {
				return err
			}
		}

		won, err := repo.CompleteSession(ctx, session)
		if err != nil {
			return err
		}
		if !won {
			return errFinishSuperseded
		}
		return stats.ApplyGameResult(ctx, req.CallerUserID, session.FinalScore, correct > 0)
	})
	if errors.Is(err, errFinishSuperseded) {
		// A concurrent finish got there first; its stored result stands.
		stored, lookupErr := s.repo.SessionFor(ctx, game.ID, req.CallerUserID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if stored != nil {
			return storedResult(stored), nil
		}
		return nil, ErrAlreadyCompleted
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Drop(ctx, game.ID, req.CallerUserID); err != nil {
		logger.L().Warn("failed to drop session cache entry", zap.Error(err))
	}

	logger.L().Info("game finished",
		zap.String("game_id", game.ID),
		zap.String("user_id", req.CallerUserID),
		zap.Int("score", session.FinalScore),
		zap.Int("correct", correct),
		zap.Int("total", total),
	)

	return storedResult(session), nil
}

// GetGame fetches a game by its id or join code. Reading an overdue game
// flips it to expired before it is served.
func (s *GameService) GetGame(ctx context.Context, idOrCode string) (*GameDetails, error) {
	game, err := s.repo.GameByID(ctx, idOrCode)
	if err != nil {
		return nil, err
	}
	if game == nil {
		game, err = s.repo.GameByCode(ctx, idOrCode)
		if err != nil {
			return nil, err
		}
	}
	if game == nil {
		return nil, ErrGameNotFound
	}

	if game.Status == models.GameStatusActive && game.Expired(time.Now().UTC()) {
		if err := s.repo.MarkGameExpired(ctx, game.ID); err != nil {
			return nil, err
		}
		game.Status = models.GameStatusExpired
	}

	refs, err := s.repo.GameImages(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	code, err := s.repo.CodeForGame(ctx, game.ID)
	if err != nil {
		return nil, err
	}

	return &GameDetails{
		GameID:   game.ID,
		GameCode: code,
		Status:   game.Status,
		Images:   toGameImages(refs),
	}, nil
}

// ensurePlayable rejects non-active games and performs the lazy expiry
// flip: the first read that observes an overdue game marks it expired.
func (s *GameService) ensurePlayable(ctx context.Context, game *models.Game) error {
	if game.Status != models.GameStatusActive {
		return ErrGameNotActive
	}
	if game.Expired(time.Now().UTC()) {
		if err := s.repo.MarkGameExpired(ctx, game.ID); err != nil {
			return err
		}
		game.Status = models.GameStatusExpired
		return ErrGameExpired
	}
	return nil
}

// sessionImages prefers the cache mirror and falls back to the repository.
// The image set is immutable after creation, so a stale mirror cannot exist.
func (s *GameService) sessionImages(ctx context.Context, gameID, userID string) ([]catalog.Ref, error) {
	if entry, err := s.cache.Get(ctx, gameID, userID); err == nil && entry != nil && len(entry.Images) > 0 {
		return entry.Images, nil
	}
	return s.repo.GameImages(ctx, gameID)
}

func sessionConflict(session *models.UserGameSession) error {
	if session.Status == models.SessionStatusCompleted {
		return ErrAlreadyPlayed
	}
	return ErrSessionAlreadyActive
}

func storedResult(session *models.UserGameSession) *FinishResult {
	return &FinishResult{
		Score:          session.FinalScore,
		CorrectGuesses: session.CorrectGuesses,
		TotalGuesses:   session.TotalGuesses,
		TimeTaken:      session.TimeTaken,
	}
}

func toGameImages(refs []catalog.Ref) []GameImage {
	images := make([]GameImage, len(refs))
	for i, ref := range refs {
		images[i] = GameImage{URL: ref.URL, Type: ref.Type}
	}
	return images
}

func newGameCode() string {
	bytes := make([]byte, gameCodeLength/2)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)[:gameCodeLength]
}
