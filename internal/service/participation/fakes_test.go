package participation

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/Jorik-creator/microvolunteer/internal/domain"
	"github.com/Jorik-creator/microvolunteer/internal/store"
	"github.com/google/uuid"
)

// fakeState is an in-memory stand-in for the database shared by the fake
// repositories. GetForUpdate takes a per-task mutex that the transaction
// runner releases when the unit of work finishes, which mirrors how a row
// lock serializes concurrent admissions on the same task.
type fakeState struct {
	mu       sync.Mutex
	tasks    map[uuid.UUID]*domain.Task
	parts    map[uuid.UUID]*domain.Participation
	rowLocks map[uuid.UUID]*sync.Mutex
}

func newFakeState() *fakeState {
	return &fakeState{
		tasks:    make(map[uuid.UUID]*domain.Task),
		parts:    make(map[uuid.UUID]*domain.Participation),
		rowLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (st *fakeState) addTask(task *domain.Task) {
	st.mu.Lock()
	defer st.mu.Unlock()
	clone := *task
	st.tasks[task.ID] = &clone
}

func (st *fakeState) taskByID(id uuid.UUID) (*domain.Task, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	task, ok := st.tasks[id]
	if !ok {
		return nil, false
	}
	clone := *task
	return &clone, true
}

func (st *fakeState) rowLock(id uuid.UUID) *sync.Mutex {
	st.mu.Lock()
	defer st.mu.Unlock()
	lock, ok := st.rowLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		st.rowLocks[id] = lock
	}
	return lock
}

func (st *fakeState) activeByTask(taskID uuid.UUID) []*domain.Participation {
	st.mu.Lock()
	defer st.mu.Unlock()
	var out []*domain.Participation
	for _, p := range st.parts {
		if p.TaskID == taskID && p.Active {
			clone := *p
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out
}

// fakeSession tracks the row locks a unit of work acquired so the runner can
// release them when it completes.
type fakeSession struct {
	mu     sync.Mutex
	locked []*sync.Mutex
}

func (s *fakeSession) track(lock *sync.Mutex) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked = append(s.locked, lock)
}

func (s *fakeSession) releaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, lock := range s.locked {
		lock.Unlock()
	}
	s.locked = nil
}

// run satisfies the service's transaction-runner field. It hands fn
// repositories bound to a fresh session and releases every row lock the
// session acquired once fn returns, commit and rollback alike.
func (st *fakeState) run(ctx context.Context, fn txFn) error {
	session := &fakeSession{}
	defer session.releaseAll()
	return fn(ctx, &fakeTaskRepo{state: st, session: session}, &fakePartRepo{state: st, session: session})
}

type fakeTaskRepo struct {
	state   *fakeState
	session *fakeSession
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, ok := r.state.taskByID(id)
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

func (r *fakeTaskRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if _, ok := r.state.taskByID(id); !ok {
		return nil, store.ErrTaskNotFound
	}
	lock := r.state.rowLock(id)
	lock.Lock()
	if r.session != nil {
		r.session.track(lock)
	} else {
		lock.Unlock()
	}
	// Re-read after acquiring the lock so a concurrent commit is visible.
	task, ok := r.state.taskByID(id)
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, task *domain.Task) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if _, ok := r.state.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	clone := *task
	r.state.tasks[task.ID] = &clone
	return nil
}

func (r *fakeTaskRepo) WithTx(tx *sql.Tx) TaskRepository { return r }

func (r *fakeTaskRepo) DB() *sql.DB { return nil }

type fakePartRepo struct {
	state   *fakeState
	session *fakeSession
}

func (r *fakePartRepo) Create(ctx context.Context, p *domain.Participation) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, existing := range r.state.parts {
		if existing.TaskID == p.TaskID && existing.VolunteerID == p.VolunteerID && existing.Active {
			return store.ErrActiveParticipationExists
		}
	}
	clone := *p
	r.state.parts[p.ID] = &clone
	return nil
}

func (r *fakePartRepo) CountActive(ctx context.Context, taskID uuid.UUID) (int, error) {
	return len(r.state.activeByTask(taskID)), nil
}

func (r *fakePartRepo) FindActive(ctx context.Context, taskID, volunteerID uuid.UUID) (*domain.Participation, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	for _, p := range r.state.parts {
		if p.TaskID == taskID && p.VolunteerID == volunteerID && p.Active {
			clone := *p
			return &clone, nil
		}
	}
	return nil, store.ErrParticipationNotFound
}

func (r *fakePartRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	p, ok := r.state.parts[id]
	if !ok || !p.Active {
		return store.ErrParticipationNotFound
	}
	clone := *p
	if err := clone.End(); err != nil {
		return err
	}
	r.state.parts[id] = &clone
	return nil
}

func (r *fakePartRepo) ListActiveByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Participation, error) {
	return r.state.activeByTask(taskID), nil
}

func (r *fakePartRepo) WithTx(tx *sql.Tx) ParticipationRepository { return r }

// fakeAuthzPolicy implements AuthorizationPolicy with configurable function
// fields.
type fakeAuthzPolicy struct {
	hasRoleFn func(ctx context.Context, callerID uuid.UUID, role domain.UserRole) (bool, error)
	isOwnerFn func(ctx context.Context, callerID, taskID uuid.UUID) (bool, error)
}

func (m *fakeAuthzPolicy) HasRole(ctx context.Context, callerID uuid.UUID, role domain.UserRole) (bool, error) {
	if m.hasRoleFn != nil {
		return m.hasRoleFn(ctx, callerID, role)
	}
	return true, nil
}

func (m *fakeAuthzPolicy) IsOwner(ctx context.Context, callerID, taskID uuid.UUID) (bool, error) {
	if m.isOwnerFn != nil {
		return m.isOwnerFn(ctx, callerID, taskID)
	}
	return false, nil
}

// newTestService wires a participationService to the fake state with the
// transaction runner swapped for the in-memory one.
func newTestService(st *fakeState, authz AuthorizationPolicy) *participationService {
	if authz == nil {
		authz = &fakeAuthzPolicy{}
	}
	s := &participationService{
		taskRepo: &fakeTaskRepo{state: st},
		partRepo: &fakePartRepo{state: st},
		authz:    authz,
		guard:    newCapacityGuard(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	s.runInTransaction = st.run
	return s
}
