package repositories

import (
	"context"
	"errors"
	"strconv"
	"time"

	"geoportal/internal/database"
	"geoportal/internal/logger"
	. "geoportal/internal/models"
	"geoportal/internal/services"

	"gorm.io/gorm"
)

const REQUEST_CACHE_EXPIRY = 1 * time.Hour

var ErrRequestNotFound = errors.New("request not found")

type RequestRepository interface {
	Create(ctx context.Context, request *Request) error
	GetByID(ctx context.Context, id int) (*Request, error)
	GetAllForUser(ctx context.Context, ownerID int) ([]*Request, error)
}

type requestRepository struct {
	db  database.DB
	log logger.Logger
}

func NewRequest(db database.DB) RequestRepository {
	return &requestRepository{
		db:  db,
		log: logger.New("requestRepository"),
	}
}

func (r *requestRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *requestRepository) Create(ctx context.Context, request *Request) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(request).Error; err != nil {
		return log.Err("failed to create request", err, "variableName", request.VariableName)
	}

	if err := r.addRequestToCache(ctx, request); err != nil {
		log.Warn("failed to add request to cache", "requestID", request.ID, "error", err)
	}

	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id int) (*Request, error) {
	log := r.log.Function("GetByID")

	var request Request
	if found, err := database.NewCacheBuilder(r.db.Cache.Request, strconv.Itoa(id)).
		WithContext(ctx).
		Get(&request); err == nil && found {
		return &request, nil
	}

	if err := r.getDB(ctx).First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, log.Err("failed to get request by id", err, "id", id)
	}

	if err := r.addRequestToCache(ctx, &request); err != nil {
		log.Warn("failed to add request to cache", "requestID", id, "error", err)
	}

	return &request, nil
}

// GetAllForUser returns the user's requests newest first. Duplicate
// collapsing happens in the controller, not here; the grouping key is a
// product decision and does not belong in the query layer.
func (r *requestRepository) GetAllForUser(ctx context.Context, ownerID int) ([]*Request, error) {
	log := r.log.Function("GetAllForUser")

	var requests []*Request
	if err := r.getDB(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&requests).Error; err != nil {
		return nil, log.Err("failed to get requests for user", err, "ownerID", ownerID)
	}

	return requests, nil
}

// Requests are immutable once submitted, so cached copies never go stale.
func (r *requestRepository) addRequestToCache(ctx context.Context, request *Request) error {
	return database.NewCacheBuilder(r.db.Cache.Request, strconv.Itoa(request.ID)).
		WithStruct(request).
		WithTTL(REQUEST_CACHE_EXPIRY).
		WithContext(ctx).
		Set()
}
