package services

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/dmitrijs2005/demeter/internal/common"
	"github.com/dmitrijs2005/demeter/internal/dbx"
	"github.com/dmitrijs2005/demeter/internal/server/models"
	todosrepo "github.com/dmitrijs2005/demeter/internal/server/repositories/todos"
	usersrepo "github.com/dmitrijs2005/demeter/internal/server/repositories/users"
)

// In-memory repository fakes. They implement the repository interfaces with
// real behavior (id assignment, owner filters, day grouping) so service
// tests can exercise full flows without a database.

type fakeUsersRepo struct {
	users  []*models.User
	nextID int64

	createErr error
	listErr   error
}

func (f *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.users = append(f.users, user)
	return user, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := make([]*models.User, len(f.users))
	copy(result, f.users)
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeUsersRepo) GetFirstPublic(ctx context.Context) (*models.User, error) {
	list, _ := f.List(ctx)
	for _, u := range list {
		if u.PublicAccess {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdatePublicAccess(ctx context.Context, id int64, value bool) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			u.PublicAccess = value
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeTodosRepo struct {
	todos  map[int64]*models.Todo
	nextID int64

	listErr error
}

func newFakeTodosRepo() *fakeTodosRepo {
	return &fakeTodosRepo{todos: make(map[int64]*models.Todo)}
}

func (f *fakeTodosRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Todo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var result []*models.Todo
	for _, td := range f.todos {
		if td.UserID == ownerID {
			result = append(result, td)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (f *fakeTodosRepo) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	f.nextID++
	todo.ID = f.nextID
	f.todos[todo.ID] = todo
	return todo, nil
}

func (f *fakeTodosRepo) GetByID(ctx context.Context, id int64) (*models.Todo, error) {
	td, ok := f.todos[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	clone := *td
	return &clone, nil
}

func (f *fakeTodosRepo) Update(ctx context.Context, todo *models.Todo) error {
	if _, ok := f.todos[todo.ID]; !ok {
		return common.ErrorNotFound
	}
	clone := *todo
	f.todos[todo.ID] = &clone
	return nil
}

func (f *fakeTodosRepo) Delete(ctx context.Context, id int64, ownerID int64) error {
	td, ok := f.todos[id]
	if !ok || td.UserID != ownerID {
		return common.ErrorNotFound
	}
	delete(f.todos, id)
	return nil
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (f *fakeTodosRepo) HistoryDays(ctx context.Context, ownerID int64, since time.Time) ([]todosrepo.DayStat, error) {
	buckets := map[time.Time]*todosrepo.DayStat{}
	for _, td := range f.todos {
		if td.UserID != ownerID || td.CreatedAt.Before(since) {
			continue
		}
		d := day(td.CreatedAt)
		stat, ok := buckets[d]
		if !ok {
			stat = &todosrepo.DayStat{Date: d}
			buckets[d] = stat
		}
		stat.Count++
		if td.Completed {
			stat.CompletedCount++
		}
	}
	var result []todosrepo.DayStat
	for _, s := range buckets {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (f *fakeTodosRepo) ListByOwnerOnDay(ctx context.Context, ownerID int64, d time.Time) ([]*models.Todo, error) {
	var result []*models.Todo
	for _, td := range f.todos {
		if td.UserID == ownerID && day(td.CreatedAt).Equal(day(d)) {
			result = append(result, td)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	td *fakeTodosRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: &fakeUsersRepo{}, td: newFakeTodosRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository         { return m.u }
func (m *fakeRepoManager) Todos(db dbx.DBTX) todosrepo.Repository         { return m.td }
