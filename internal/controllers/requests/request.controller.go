package requestController

import (
	"context"
	"fmt"
	"time"

	"geoportal/internal/events"
	"geoportal/internal/logger"
	. "geoportal/internal/models"
	"geoportal/internal/repositories"
	"geoportal/internal/validation"

	"github.com/google/uuid"
)

type RequestController struct {
	requestRepo repositories.RequestRepository
	validator   *validation.Validator
	eventBus    *events.EventBus
	log         logger.Logger
}

func New(
	requestRepo repositories.RequestRepository,
	validator *validation.Validator,
	eventBus *events.EventBus,
) *RequestController {
	return &RequestController{
		requestRepo: requestRepo,
		validator:   validator,
		eventBus:    eventBus,
		log:         logger.New("RequestController"),
	}
}

// Submit validates the payload and persists it. Field errors are returned to
// the caller for a 400 response; the Go error covers infrastructure only.
func (rc *RequestController) Submit(
	ctx context.Context,
	insert InsertRequest,
	ownerID *int,
) (*Request, validation.FieldErrors, error) {
	log := rc.log.Function("Submit")

	if errs := rc.validator.Validate(&insert); errs.Any() {
		return nil, errs, nil
	}

	request := insert.ToRequest()
	request.OwnerID = ownerID

	if err := rc.requestRepo.Create(ctx, &request); err != nil {
		return nil, nil, err
	}

	rc.publishCreated(&request)

	log.Info("Request submitted", "requestID", request.ID, "variableName", request.VariableName)
	return &request, nil, nil
}

// Get returns one request, visible only to its owner. Non-owned and unknown
// ids both answer not-found so existence is never leaked.
func (rc *RequestController) Get(ctx context.Context, id, ownerID int) (*Request, error) {
	request, err := rc.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if request.OwnerID == nil || *request.OwnerID != ownerID {
		return nil, repositories.ErrRequestNotFound
	}

	return request, nil
}

// History returns the user's requests newest first with duplicates collapsed.
func (rc *RequestController) History(ctx context.Context, ownerID int) ([]RequestWithCount, error) {
	requests, err := rc.requestRepo.GetAllForUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return CollapseDuplicates(requests), nil
}

// duplicateKey is the product-chosen grouping key for the history view.
// Deliberately coarse: three fields, not the full request body.
type duplicateKey struct {
	variableName Variable
	outDir       string
	debug        bool
}

func keyOf(request *Request) duplicateKey {
	key := duplicateKey{
		variableName: request.VariableName,
		debug:        request.Debug,
	}
	if request.OutDir != nil {
		key.outDir = *request.OutDir
	}
	return key
}

// CollapseDuplicates reduces a time-ordered (newest first) list to one
// representative per duplicate group, annotated with the group size. The
// representative is the most recent entry because of the input ordering.
func CollapseDuplicates(requests []*Request) []RequestWithCount {
	collapsed := []RequestWithCount{}
	seen := map[duplicateKey]int{}

	for _, request := range requests {
		key := keyOf(request)
		if idx, ok := seen[key]; ok {
			collapsed[idx].Count++
			continue
		}
		seen[key] = len(collapsed)
		collapsed = append(collapsed, RequestWithCount{Request: *request, Count: 1})
	}

	return collapsed
}

func (rc *RequestController) publishCreated(request *Request) {
	if rc.eventBus == nil || request.OwnerID == nil {
		return
	}

	event := events.Event{
		ID:        uuid.NewString(),
		Type:      "request.created",
		Channel:   fmt.Sprintf("user:%d", *request.OwnerID),
		UserID:    *request.OwnerID,
		Data:      map[string]any{"requestId": request.ID, "variableName": request.VariableName},
		Timestamp: time.Now().UTC(),
	}

	if err := rc.eventBus.Publish(event); err != nil {
		rc.log.Function("publishCreated").
			Warn("failed to publish request created event", "requestID", request.ID, "error", err)
	}
}
