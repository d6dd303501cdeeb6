package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clientdesk/clientdesk-backend/internal/data/repos"
	types "github.com/clientdesk/clientdesk-backend/internal/domain"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/apierr"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/ctxutil"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/logger"
)

type ClientUpdate struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Address      *string `json:"address"`
	Organization *string `json:"organization"`
}

type ClientService interface {
	List(ctx context.Context) ([]*types.Client, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Client, error)
	Create(ctx context.Context, client *types.Client) (*types.Client, error)
	Update(ctx context.Context, id uuid.UUID, update ClientUpdate) (*types.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type clientService struct {
	db         *gorm.DB
	log        *logger.Logger
	clientRepo repos.ClientRepo
}

func NewClientService(db *gorm.DB, log *logger.Logger, clientRepo repos.ClientRepo) ClientService {
	return &clientService{db: db, log: log.With("service", "ClientService"), clientRepo: clientRepo}
}

func requireUser(ctx context.Context) (uuid.UUID, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, apierr.New(401, "unauthorized", errors.New("missing user session"))
	}
	return rd.UserID, nil
}

func (cs *clientService) List(ctx context.Context) ([]*types.Client, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := cs.clientRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.New(500, "client_list_failed", err)
	}
	return clients, nil
}

// Get resolves a client and enforces ownership. An existing client owned by
// someone else reads as not found so ids cannot be probed.
func (cs *clientService) Get(ctx context.Context, id uuid.UUID) (*types.Client, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := cs.clientRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, apierr.New(500, "client_lookup_failed", err)
	}
	if len(rows) == 0 || rows[0].UserID != userID {
		return nil, apierr.New(404, "client_not_found", errors.New("client not found"))
	}
	return rows[0], nil
}

func (cs *clientService) Create(ctx context.Context, client *types.Client) (*types.Client, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if client == nil || strings.TrimSpace(client.Name) == "" {
		return nil, apierr.New(400, "name_required", errors.New("client name is required"))
	}
	client.ID = uuid.New()
	client.UserID = userID
	client.Name = strings.TrimSpace(client.Name)
	created, err := cs.clientRepo.Create(ctx, nil, []*types.Client{client})
	if err != nil {
		return nil, apierr.New(500, "client_create_failed", err)
	}
	return created[0], nil
}

func (cs *clientService) Update(ctx context.Context, id uuid.UUID, update ClientUpdate) (*types.Client, error) {
	existing, err := cs.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, apierr.New(400, "name_required", errors.New("client name cannot be empty"))
		}
		updates["name"] = strings.TrimSpace(*update.Name)
	}
	if update.Phone != nil {
		updates["phone"] = *update.Phone
	}
	if update.Email != nil {
		updates["email"] = *update.Email
	}
	if update.Address != nil {
		updates["address"] = *update.Address
	}
	if update.Organization != nil {
		updates["organization"] = *update.Organization
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if err := cs.clientRepo.UpdateFields(ctx, nil, id, updates); err != nil {
		return nil, apierr.New(500, "client_update_failed", err)
	}
	rows, err := cs.clientRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil || len(rows) == 0 {
		return nil, apierr.New(500, "client_reload_failed", err)
	}
	return rows[0], nil
}

// Delete removes the client row only. Documents keep their client_id and
// remain reachable by id; cleaning them up is the caller's call.
func (cs *clientService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := cs.Get(ctx, id); err != nil {
		return err
	}
	if err := cs.clientRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{id}); err != nil {
		return apierr.New(500, "client_delete_failed", err)
	}
	return nil
}
