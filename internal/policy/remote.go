package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/Tydestiny/Incan-Gold/internal/models"
)

// DefaultSubject is where the inference service listens
const DefaultSubject = "incan.policy.decide"

// Requester is the request/reply half of a NATS connection
type Requester interface {
	RequestWithContext(ctx context.Context, subj string, data []byte) (*nats.Msg, error)
}

// Remote asks an external inference service over NATS. The request carries
// the 11-value observation; the reply is {"action": 0} to continue or
// {"action": 1} to return.
type Remote struct {
	nc      Requester
	subject string
}

// NewRemote returns a remote policy publishing on subject
func NewRemote(nc Requester, subject string) *Remote {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Remote{nc: nc, subject: subject}
}

type remoteRequest struct {
	PlayerID string    `json:"player_id"`
	Obs      []float32 `json:"obs"`
}

type remoteReply struct {
	Action *int   `json:"action"`
	Err    string `json:"err,omitempty"`
}

// Decide implements game.Decider
func (r *Remote) Decide(ctx context.Context, snap models.Snapshot) (models.Choice, error) {
	data, err := json.Marshal(remoteRequest{PlayerID: snap.PlayerID, Obs: snap.Vector()})
	if err != nil {
		return "", err
	}
	msg, err := r.nc.RequestWithContext(ctx, r.subject, data)
	if err != nil {
		return "", fmt.Errorf("policy request: %w", err)
	}
	var reply remoteReply
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return "", fmt.Errorf("policy reply: %w", err)
	}
	if reply.Err != "" {
		return "", errors.New(reply.Err)
	}
	if reply.Action == nil {
		return "", errors.New("policy reply has no action")
	}
	switch *reply.Action {
	case 0:
		return models.ChoiceContinue, nil
	case 1:
		return models.ChoiceReturn, nil
	default:
		return "", fmt.Errorf("policy returned unknown action %d", *reply.Action)
	}
}
