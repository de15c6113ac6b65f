package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"realguess/catalog"
	"realguess/logger"
	"realguess/models"
	"realguess/repository"
)

// CompetitionService links games to competitions and keeps their time
// windows synchronized: a competition's (start, end) always mirrors its
// game's (created_at, expires_at).
type CompetitionService struct {
	db      *gorm.DB
	games   *repository.GameRepository
	comps   *repository.CompetitionRepository
	users   *repository.UserRepository
	catalog catalog.Client
	expiry  time.Duration
}

func NewCompetitionService(
	db *gorm.DB,
	games *repository.GameRepository,
	comps *repository.CompetitionRepository,
	users *repository.UserRepository,
	imageCatalog catalog.Client,
	expiry time.Duration,
) *CompetitionService {
	return &CompetitionService{
		db:      db,
		games:   games,
		comps:   comps,
		users:   users,
		catalog: imageCatalog,
		expiry:  expiry,
	}
}

type CreateLinkedGameRequest struct {
	Mode         string   `json:"mode" binding:"required"`
	Board        string   `json:"board" binding:"required"`
	Name         string   `json:"name"`
	CallerUserID string   `json:"callerUserId" binding:"required"`
	ImageRefs    []string `json:"imageRefs" binding:"required,min=1"`
	EndDate      string   `json:"endDate"` // YYYY-MM-DD, optional
}

type LinkedGameResult struct {
	GameID        string `json:"gameId"`
	GameCode      string `json:"gameCode"`
	CompetitionID uint   `json:"competitionId"`
}

type CompetitionSummary struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	GameID    string    `json:"gameId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

type CompetitionDetail struct {
	CompetitionSummary
	TopPlayer *TopPlayer `json:"topPlayer"`
}

type TopPlayer struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

type SubmitScoreRequest struct {
	CompetitionID uint   `json:"competitionId" binding:"required"`
	CallerUserID  string `json:"callerUserId" binding:"required"`
	Score         int    `json:"score"`
}

// CreateLinkedGame builds a game from an explicit image set and wraps it in
// a competition whose window mirrors the game's lifetime. Game, images,
// code and competition are created in one transaction.
func (s *CompetitionService) CreateLinkedGame(ctx context.Context, req *CreateLinkedGameRequest) (*LinkedGameResult, error) {
	user, err := s.users.ByID(ctx, req.CallerUserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	refs, err := s.catalog.ResolvePaths(ctx, req.ImageRefs)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, ErrImagesNotFound
	}

	now := time.Now().UTC()
	endTime := now.Add(s.expiry)
	if req.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return nil, errors.New("invalid end date format, use YYYY-MM-DD")
		}
		endTime = parsed
	}

	name := req.Name
	if name == "" {
		name = req.Mode + " competition"
	}

	game := &models.Game{
		ID:        uuid.NewString(),
		Mode:      req.Mode,
		Board:     req.Board,
		Status:    models.GameStatusActive,
		CreatedBy: user.ID,
		ExpiresAt: &endTime,
	}
	imageIDs := make([]uint, len(refs))
	for i, ref := range refs {
		imageIDs[i] = ref.ID
	}

	var result LinkedGameResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		games := repository.NewGameRepository(tx)
		comps := repository.NewCompetitionRepository(tx)

		code, err := games.CreateGameWithImages(ctx, game, imageIDs, newGameCode)
		if err != nil {
			return err
		}

		competition := &models.Competition{
			Name:      name,
			GameID:    game.ID,
			StartTime: game.CreatedAt,
			EndTime:   endTime,
		}
		if err := comps.Create(ctx, competition); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrCompetitionExists
			}
			return err
		}

		result = LinkedGameResult{
			GameID:        game.ID,
			GameCode:      code,
			CompetitionID: competition.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L().Info("competition game created",
		zap.String("game_id", result.GameID),
		zap.Uint("competition_id", result.CompetitionID),
	)
	return &result, nil
}

// UpdateGameExpiry moves a game's expiry and cascades the new window end to
// its competition in the same transaction.
func (s *CompetitionService) UpdateGameExpiry(ctx context.Context, gameID string, expiry time.Time) error {
	game, err := s.games.GameByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	return s.games.UpdateGameExpiry(ctx, gameID, expiry)
}

func (s *CompetitionService) List(ctx context.Context) ([]CompetitionSummary, error) {
	competitions, err := s.comps.All(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]CompetitionSummary, len(competitions))
	for i, c := range competitions {
		summaries[i] = toSummary(&c)
	}
	return summaries, nil
}

func (s *CompetitionService) Get(ctx context.Context, id uint) (*CompetitionDetail, error) {
	competition, err := s.comps.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if competition == nil {
		return nil, ErrCompetitionNotFound
	}

	detail := &CompetitionDetail{CompetitionSummary: toSummary(competition)}
	top, err := s.comps.TopEntry(ctx, competition.ID)
	if err != nil {
		return nil, err
	}
	if top != nil {
		detail.TopPlayer = &TopPlayer{Username: top.User.Username, Score: top.Score}
	}
	return detail, nil
}

func (s *CompetitionService) SubmitScore(ctx context.Context, req *SubmitScoreRequest) error {
	competition, err := s.comps.ByID(ctx, req.CompetitionID)
	if err != nil {
		return err
	}
	if competition == nil {
		return ErrCompetitionNotFound
	}
	return s.comps.SubmitScore(ctx, &models.CompetitionEntry{
		CompetitionID: req.CompetitionID,
		UserID:        req.CallerUserID,
		Score:         req.Score,
	})
}

func toSummary(c *models.Competition) CompetitionSummary {
	return CompetitionSummary{
		ID:        c.ID,
		Name:      c.Name,
		GameID:    c.GameID,
		StartTime: c.StartTime,
		EndTime:   c.EndTime,
	}
}
