// Package vote implements the like/dislike protocol on answers and replies:
// at most one vote per (target, user), toggle-off on a repeated identical
// vote, in-place flip on a changed vote, aggregates recomputed from the
// stored rows on every call.
package vote

import (
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Kind string

const (
	KindLike    Kind = "like"
	KindDislike Kind = "dislike"
)

func (k Kind) Valid() bool {
	return k == KindLike || k == KindDislike
}

type TargetType string

const (
	TargetAnswer TargetType = "answer"
	TargetReply  TargetType = "reply"
)

// Target identifies an answer or reply that can receive votes.
type Target struct {
	Type TargetType
	ID   int
}

func (t Target) table() string {
	if t.Type == TargetReply {
		return "reply_votes"
	}
	return "answer_votes"
}

func (t Target) column() string {
	if t.Type == TargetReply {
		return "reply_id"
	}
	return "answer_id"
}

// Counts are derived, never stored.
type Counts struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

type Action string

const (
	VoteAdded   Action = "added"
	VoteRemoved Action = "removed"
	VoteChanged Action = "changed"
)

type Result struct {
	Counts   Counts
	UserVote *Kind // nil when the vote was retracted
	Action   Action
}

var (
	ErrInvalidInput   = errors.New("invalid vote input")
	ErrTargetNotFound = errors.New("vote target not found")
)

// Notifier receives the upvote side effect. Implementations must not fail
// the vote; the engine ignores anything that goes wrong past this call.
type Notifier interface {
	NotifyUpvote(recipientID, senderID int, referenceID string) int
}

type Engine struct {
	db       *gorm.DB
	notifier Notifier
}

// NewEngine builds an engine on the given datastore handle. notifier may be
// nil, in which case no upvote notifications are produced.
func NewEngine(db *gorm.DB, notifier Notifier) *Engine {
	return &Engine{db: db, notifier: notifier}
}

// Apply records the user's vote on the target and returns the recomputed
// aggregates plus the voter's resulting vote state.
//
// The read-then-decide sequence is a fast path only; the composite unique
// constraint is the authority. An insert that loses the constraint race is
// retried as an in-place update instead of surfacing an error.
func (e *Engine) Apply(target Target, userID int, kind Kind) (Result, error) {
	if target.ID <= 0 || userID <= 0 || !kind.Valid() {
		return Result{}, ErrInvalidInput
	}

	ownerID, err := e.OwnerOf(target)
	if err != nil {
		return Result{}, err
	}

	existing, err := e.findVote(target, userID)
	if err != nil {
		return Result{}, err
	}

	var action Action
	switch {
	case existing == nil:
		err = e.createVote(target, userID, kind)
		if isDuplicateKey(err) {
			// Lost the race against a concurrent vote by the same user;
			// a row already exists, so converge on the requested kind.
			action = VoteChanged
			err = e.updateVote(target, userID, kind)
		} else {
			action = VoteAdded
		}
	case *existing == kind:
		// Clicking the same button twice retracts the vote.
		action = VoteRemoved
		err = e.deleteVote(target, userID)
	default:
		action = VoteChanged
		err = e.updateVote(target, userID, kind)
	}
	if err != nil {
		return Result{}, err
	}

	counts, err := e.counts(target)
	if err != nil {
		return Result{}, err
	}

	res := Result{Counts: counts, Action: action}
	if action != VoteRemoved {
		k := kind
		res.UserVote = &k
	}

	// Post-commit side effect: only a brand-new approving vote on someone
	// else's content notifies, never a toggle or a kind change.
	if action == VoteAdded && kind == KindLike && ownerID != userID && e.notifier != nil {
		e.notifier.NotifyUpvote(ownerID, userID, strconv.Itoa(target.ID))
	}

	return res, nil
}

// Votes is the pure read used to hydrate or reconcile client state.
func (e *Engine) Votes(target Target, userID int) (Counts, *Kind, error) {
	if target.ID <= 0 {
		return Counts{}, nil, ErrInvalidInput
	}

	counts, err := e.counts(target)
	if err != nil {
		return Counts{}, nil, err
	}

	userVote, err := e.findVote(target, userID)
	if err != nil {
		return Counts{}, nil, err
	}
	return counts, userVote, nil
}

// OwnerOf returns the user id owning the target, or ErrTargetNotFound.
func (e *Engine) OwnerOf(target Target) (int, error) {
	table := "answers"
	if target.Type == TargetReply {
		table = "replies"
	}

	var ownerID int
	res := e.db.Table(table).Select("user_id").Where("id = ?", target.ID).Limit(1).Scan(&ownerID)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrTargetNotFound
	}
	return ownerID, nil
}

func (e *Engine) findVote(target Target, userID int) (*Kind, error) {
	var voteType string
	res := e.db.Table(target.table()).
		Select("vote_type").
		Where(target.column()+" = ? AND user_id = ?", target.ID, userID).
		Limit(1).
		Scan(&voteType)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	k := Kind(voteType)
	return &k, nil
}

func (e *Engine) createVote(target Target, userID int, kind Kind) error {
	now := time.Now().UTC()
	return e.db.Table(target.table()).Create(map[string]interface{}{
		target.column(): target.ID,
		"user_id":       userID,
		"vote_type":     string(kind),
		"created_at":    now,
		"updated_at":    now,
	}).Error
}

func (e *Engine) updateVote(target Target, userID int, kind Kind) error {
	return e.db.Table(target.table()).
		Where(target.column()+" = ? AND user_id = ?", target.ID, userID).
		Updates(map[string]interface{}{
			"vote_type":  string(kind),
			"updated_at": time.Now().UTC(),
		}).Error
}

func (e *Engine) deleteVote(target Target, userID int) error {
	return e.db.Exec(
		"DELETE FROM "+target.table()+" WHERE "+target.column()+" = ? AND user_id = ?",
		target.ID, userID,
	).Error
}

func (e *Engine) counts(target Target) (Counts, error) {
	var c Counts
	err := e.db.Table(target.table()).
		Where(target.column()+" = ? AND vote_type = ?", target.ID, string(KindLike)).
		Count(&c.Likes).Error
	if err != nil {
		return Counts{}, err
	}
	err = e.db.Table(target.table()).
		Where(target.column()+" = ? AND vote_type = ?", target.ID, string(KindDislike)).
		Count(&c.Dislikes).Error
	if err != nil {
		return Counts{}, err
	}
	return c, nil
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
