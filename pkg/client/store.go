package client

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Store owns a client session: the bearer token, the cached profile, and the
// fetched collections. Mutating calls go to the server first; local state is
// folded only from the server's response, so the server stays the sole
// arbiter of current status. Server-side authorization and transition errors
// pass through unchanged.
type Store struct {
	client *Client

	mu         sync.RWMutex
	profile    *Profile
	mine       []Expense
	pending    []Expense
	approved   []Expense
	categories []Category
}

func NewStore(c *Client) *Store {
	return &Store{client: c}
}

// ResumeSession installs a previously persisted token and fetches the profile
// behind it. On failure the store stays logged out.
func (s *Store) ResumeSession(ctx context.Context, token string) (*Profile, error) {
	s.client.SetToken(token)
	profile, err := s.client.Me(ctx)
	if err != nil {
		s.client.SetToken("")
		return nil, err
	}

	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()
	return profile, nil
}

func (s *Store) Login(ctx context.Context, email, password string) (*Profile, error) {
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.startSession(resp), nil
}

func (s *Store) Register(ctx context.Context, input RegisterInput) (*Profile, error) {
	resp, err := s.client.Register(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.startSession(resp), nil
}

func (s *Store) startSession(resp *AuthResponse) *Profile {
	s.client.SetToken(resp.Token)

	s.mu.Lock()
	defer s.mu.Unlock()
	profile := resp.User
	s.profile = &profile
	return s.profile
}

// Logout tears the session down: token, profile and every cached collection
// go together.
func (s *Store) Logout() {
	s.client.SetToken("")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = nil
	s.mine = nil
	s.pending = nil
	s.approved = nil
	s.categories = nil
}

func (s *Store) Profile() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	profile := *s.profile
	return &profile
}

func (s *Store) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile != nil
}

func (s *Store) RefreshMine(ctx context.Context) ([]Expense, error) {
	expenses, err := s.client.MyExpenses(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.mine = expenses
	s.mu.Unlock()
	return s.Mine(), nil
}

func (s *Store) RefreshPending(ctx context.Context) ([]Expense, error) {
	expenses, err := s.client.PendingExpenses(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.pending = expenses
	s.mu.Unlock()
	return s.Pending(), nil
}

func (s *Store) RefreshApproved(ctx context.Context) ([]Expense, error) {
	expenses, err := s.client.ApprovedExpenses(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.approved = expenses
	s.mu.Unlock()
	return s.Approved(), nil
}

func (s *Store) RefreshCategories(ctx context.Context) ([]Category, error) {
	categories, err := s.client.Categories(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()
	return s.Categories(), nil
}

func (s *Store) Mine() []Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Expense(nil), s.mine...)
}

func (s *Store) Pending() []Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Expense(nil), s.pending...)
}

func (s *Store) Approved() []Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Expense(nil), s.approved...)
}

func (s *Store) Categories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Category(nil), s.categories...)
}

func (s *Store) CreateExpense(ctx context.Context, input ExpenseInput) (*Expense, error) {
	created, err := s.client.CreateExpense(ctx, input)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.mine = append(s.mine, *created)
	s.mu.Unlock()
	return created, nil
}

func (s *Store) UpdateExpense(ctx context.Context, id uuid.UUID, input ExpenseInput) (*Expense, error) {
	updated, err := s.client.UpdateExpense(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.mine = replaceByID(s.mine, *updated)
	s.mu.Unlock()
	return updated, nil
}

func (s *Store) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	if err := s.client.DeleteExpense(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.mine = removeByID(s.mine, id)
	s.mu.Unlock()
	return nil
}

// SubmitExpense moves a draft into the approval queue and folds the returned
// record into the caller's own list.
func (s *Store) SubmitExpense(ctx context.Context, id uuid.UUID) (*Expense, error) {
	updated, err := s.client.SubmitExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.mine = replaceByID(s.mine, *updated)
	s.mu.Unlock()
	return updated, nil
}

// ApproveExpense removes the item from the pending queue on success: an
// approved expense no longer awaits decision.
func (s *Store) ApproveExpense(ctx context.Context, id uuid.UUID) (*Expense, error) {
	updated, err := s.client.ApproveExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.pending = removeByID(s.pending, id)
	s.mine = replaceByID(s.mine, *updated)
	s.mu.Unlock()
	return updated, nil
}

func (s *Store) RejectExpense(ctx context.Context, id uuid.UUID, reason string) (*Expense, error) {
	updated, err := s.client.RejectExpense(ctx, id, reason)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.pending = removeByID(s.pending, id)
	s.mine = replaceByID(s.mine, *updated)
	s.mu.Unlock()
	return updated, nil
}

// ReimburseExpense removes the item from the approved list on success.
func (s *Store) ReimburseExpense(ctx context.Context, id uuid.UUID) (*Expense, error) {
	updated, err := s.client.ReimburseExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.approved = removeByID(s.approved, id)
	s.mine = replaceByID(s.mine, *updated)
	s.mu.Unlock()
	return updated, nil
}

// BulkFailure reports one item of a bulk operation that did not go through.
type BulkFailure struct {
	ID  uuid.UUID
	Err error
}

// BulkResult is the outcome of a bulk fold: partial success is normal, not an
// error.
type BulkResult struct {
	Succeeded []Expense
	Failed    []BulkFailure
}

// BulkApprove approves each id in turn, one request per item. An item that is
// no longer pending (another approver got there first) fails with an
// InvalidTransitionError and the fold continues; transport failures stop the
// fold since later calls would fail the same way.
func (s *Store) BulkApprove(ctx context.Context, ids []uuid.UUID) (*BulkResult, error) {
	return s.bulk(ctx, ids, func(id uuid.UUID) (*Expense, error) {
		return s.ApproveExpense(ctx, id)
	})
}

// BulkReject rejects each id in turn with the shared reason.
func (s *Store) BulkReject(ctx context.Context, ids []uuid.UUID, reason string) (*BulkResult, error) {
	return s.bulk(ctx, ids, func(id uuid.UUID) (*Expense, error) {
		return s.RejectExpense(ctx, id, reason)
	})
}

func (s *Store) bulk(ctx context.Context, ids []uuid.UUID, op func(uuid.UUID) (*Expense, error)) (*BulkResult, error) {
	result := &BulkResult{}
	for _, id := range ids {
		updated, err := op(id)
		if err != nil {
			var transportErr *TransportError
			if errors.As(err, &transportErr) {
				return result, err
			}
			result.Failed = append(result.Failed, BulkFailure{ID: id, Err: err})
			continue
		}
		result.Succeeded = append(result.Succeeded, *updated)
	}
	return result, nil
}

func replaceByID(expenses []Expense, updated Expense) []Expense {
	for i := range expenses {
		if expenses[i].ID == updated.ID {
			expenses[i] = updated
			return expenses
		}
	}
	return expenses
}

func removeByID(expenses []Expense, id uuid.UUID) []Expense {
	out := expenses[:0]
	for _, e := range expenses {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}
