package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// memComplaintRepo is an in-memory stand-in that mirrors the Postgres
// behavior the services rely on, including the unique complaint number
// constraint and pgx.ErrNoRows on misses.
type memComplaintRepo struct {
	mu           sync.Mutex
	nextID       int64
	items        map[int64]domain.Complaint
	updateErrFor map[int64]error
}

func newMemComplaintRepo() *memComplaintRepo {
	return &memComplaintRepo{items: map[int64]domain.Complaint{}, updateErrFor: map[int64]error{}}
}

func (r *memComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkNumberLocked(complaint.Number, 0); err != nil {
		return err
	}
	r.nextID++
	complaint.ID = r.nextID
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = time.Now()
	}
	r.items[complaint.ID] = *complaint
	return nil
}

func (r *memComplaintRepo) Update(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.updateErrFor[complaint.ID]; err != nil {
		return err
	}
	if _, ok := r.items[complaint.ID]; !ok {
		return pgx.ErrNoRows
	}
	if err := r.checkNumberLocked(complaint.Number, complaint.ID); err != nil {
		return err
	}
	r.items[complaint.ID] = *complaint
	return nil
}

func (r *memComplaintRepo) UpdateNumber(_ context.Context, id int64, number string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if err := r.checkNumberLocked(number, id); err != nil {
		return err
	}
	item.Number = number
	r.items[id] = item
	return nil
}

func (r *memComplaintRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

func (r *memComplaintRepo) GetByID(_ context.Context, id int64) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := item
	return &copied, nil
}

func (r *memComplaintRepo) GetTopByNumber(_ context.Context) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var top *domain.Complaint
	for _, item := range r.items {
		if top == nil || item.Number > top.Number {
			copied := item
			top = &copied
		}
	}
	if top == nil {
		return nil, pgx.ErrNoRows
	}
	return top, nil
}

func (r *memComplaintRepo) ListAll(_ context.Context) ([]domain.Complaint, error) {
	items := r.snapshot()
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (r *memComplaintRepo) ListOrderedByCreation(_ context.Context) ([]domain.Complaint, error) {
	items := r.snapshot()
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (r *memComplaintRepo) ListByCreator(_ context.Context, userID int64) ([]domain.Complaint, error) {
	var out []domain.Complaint
	for _, item := range r.snapshot() {
		if item.CreatedByID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memComplaintRepo) ListByAssignee(_ context.Context, userID int64) ([]domain.Complaint, error) {
	var out []domain.Complaint
	for _, item := range r.snapshot() {
		if item.AssigneeID != nil && *item.AssigneeID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memComplaintRepo) CountByStatus(_ context.Context, status domain.ComplaintStatus) (int64, error) {
	var count int64
	for _, item := range r.snapshot() {
		if item.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *memComplaintRepo) snapshot() []domain.Complaint {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Complaint, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	return out
}

func (r *memComplaintRepo) checkNumberLocked(number string, selfID int64) error {
	for id, item := range r.items {
		if id != selfID && item.Number == number {
			return fmt.Errorf("duplicate complaint number %s", number)
		}
	}
	return nil
}

type memUpdateRepo struct {
	mu     sync.Mutex
	nextID int64
	items  []domain.ComplaintUpdate
}

func newMemUpdateRepo() *memUpdateRepo {
	return &memUpdateRepo{}
}

func (r *memUpdateRepo) Create(_ context.Context, update *domain.ComplaintUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	update.ID = r.nextID
	if update.UpdatedAt.IsZero() {
		update.UpdatedAt = time.Now()
	}
	r.items = append(r.items, *update)
	return nil
}

func (r *memUpdateRepo) ListByComplaint(_ context.Context, complaintID int64) ([]domain.ComplaintUpdate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ComplaintUpdate
	for _, item := range r.items {
		if item.ComplaintID == complaintID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memUpdateRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
	return nil
}

func (r *memUpdateRepo) all() []domain.ComplaintUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ComplaintUpdate{}, r.items...)
}

type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{items: map[int64]domain.User{}}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.items[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := item
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.Email == email {
			copied := item
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.Username == username {
			copied := item
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) SetRole(_ context.Context, id int64, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	item.Role = role
	r.items[id] = item
	return nil
}

type memNotificationRepo struct {
	mu     sync.Mutex
	nextID int64
	items  []domain.Notification
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{}
}

func (r *memNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	notification.ID = r.nextID
	notification.CreatedAt = time.Now()
	r.items = append(r.items, *notification)
	return nil
}

func (r *memNotificationRepo) List(_ context.Context) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]domain.Notification{}, r.items...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memNotificationRepo) UnreadCount(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, item := range r.items {
		if !item.Read {
			count++
		}
	}
	return count, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Read = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memNotificationRepo) MarkAllRead(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		r.items[i].Read = true
	}
	return nil
}

func (r *memNotificationRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
	return nil
}

type memUserNotificationRepo struct {
	mu     sync.Mutex
	nextID int64
	items  []domain.UserNotification
}

func newMemUserNotificationRepo() *memUserNotificationRepo {
	return &memUserNotificationRepo{}
}

func (r *memUserNotificationRepo) Create(_ context.Context, notification *domain.UserNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	notification.ID = r.nextID
	notification.CreatedAt = time.Now()
	r.items = append(r.items, *notification)
	return nil
}

func (r *memUserNotificationRepo) ListByUser(_ context.Context, userID int64) ([]domain.UserNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.UserNotification
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memUserNotificationRepo) UnreadCountByUser(_ context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, item := range r.items {
		if item.UserID == userID && !item.Read {
			count++
		}
	}
	return count, nil
}

func (r *memUserNotificationRepo) MarkRead(_ context.Context, id, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].UserID == userID {
			r.items[i].Read = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memUserNotificationRepo) MarkAllRead(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].UserID == userID {
			r.items[i].Read = true
		}
	}
	return nil
}

type memAttachmentRepo struct {
	mu     sync.Mutex
	nextID int64
	items  []domain.Attachment
}

func newMemAttachmentRepo() *memAttachmentRepo {
	return &memAttachmentRepo{}
}

func (r *memAttachmentRepo) Create(_ context.Context, attachment *domain.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	attachment.ID = r.nextID
	attachment.CreatedAt = time.Now()
	r.items = append(r.items, *attachment)
	return nil
}

func (r *memAttachmentRepo) ListByComplaint(_ context.Context, complaintID int64) ([]domain.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Attachment
	for _, item := range r.items {
		if item.ComplaintID == complaintID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memAttachmentRepo) ListAll(_ context.Context) ([]domain.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Attachment{}, r.items...), nil
}

func (r *memAttachmentRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
	return nil
}

type memFileStore struct {
	mu    sync.Mutex
	files map[string][]byte
	seq   int
}

func newMemFileStore() *memFileStore {
	return &memFileStore{files: map[string][]byte{}}
}

func (s *memFileStore) Save(name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	key := fmt.Sprintf("file-%d-%s", s.seq, name)
	s.files[key] = data
	return key, nil
}

func (s *memFileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, key)
	return nil
}

func (s *memFileStore) RemoveAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = map[string][]byte{}
	return nil
}

func (s *memFileStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}
