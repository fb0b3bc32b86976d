// Package memory is an in-process repository.Store. Transactions run on a
// private copy of the data that replaces the committed copy only when the
// callback succeeds, so partial writes are never visible. Uniqueness rules
// match the PostgreSQL schema.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/models"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/repository"
	"github.com/google/uuid"
)

// FailFunc lets tests make a named operation fail, e.g. "CreateActivity".
type FailFunc func(op string) error

type data struct {
	users      map[uuid.UUID]models.User
	follows    map[uuid.UUID]models.Follow
	blocks     map[uuid.UUID]models.Block
	posts      map[uuid.UUID]models.Post
	likes      map[uuid.UUID]models.Like
	activities []models.Activity
}

func newData() *data {
	return &data{
		users:   make(map[uuid.UUID]models.User),
		follows: make(map[uuid.UUID]models.Follow),
		blocks:  make(map[uuid.UUID]models.Block),
		posts:   make(map[uuid.UUID]models.Post),
		likes:   make(map[uuid.UUID]models.Like),
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.follows {
		c.follows[k] = v
	}
	for k, v := range d.blocks {
		c.blocks[k] = v
	}
	for k, v := range d.posts {
		c.posts[k] = v
	}
	for k, v := range d.likes {
		c.likes[k] = v
	}
	c.activities = append([]models.Activity(nil), d.activities...)
	return c
}

// clock hands out strictly increasing timestamps so ordering by creation
// time is deterministic.
type clock struct {
	mu   sync.Mutex
	last time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := time.Now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

type Store struct {
	mu    *sync.Mutex
	d     *data
	clock *clock
	fail  FailFunc
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		mu:    &sync.Mutex{},
		d:     newData(),
		clock: &clock{},
	}
}

// SetFailFunc installs a failure hook; nil removes it.
func (s *Store) SetFailFunc(fn FailFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fn
}

func (s *Store) check(op string) error {
	if s.fail == nil {
		return nil
	}
	return s.fail(op)
}

// Transaction holds the store lock for the whole callback: transactions are
// serialized and the callback must only use tx.
func (s *Store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{
		mu:    &sync.Mutex{},
		d:     s.d.clone(),
		clock: s.clock,
		fail:  s.fail,
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.d = tx.d
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock, err := s.lock("Ping")
	if err != nil {
		return err
	}
	unlock()
	return nil
}

func (s *Store) lock(op string) (func(), error) {
	s.mu.Lock()
	if err := s.check(op); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	return s.mu.Unlock, nil
}

func excluded(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func page[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func newer(aTime, bTime time.Time, aID, bID uuid.UUID) bool {
	if !aTime.Equal(bTime) {
		return aTime.After(bTime)
	}
	return bytes.Compare(aID[:], bID[:]) > 0
}

func fkViolation(table string, id uuid.UUID) error {
	return fmt.Errorf("insert into %s: referenced row %s does not exist", table, id)
}

// --- users ---

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	unlock, err := s.lock("CreateUser")
	if err != nil {
		return err
	}
	defer unlock()

	for _, u := range s.d.users {
		if u.Email == user.Email || u.Username == user.Username {
			return fmt.Errorf("%w: users email/username", repository.ErrDuplicate)
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	now := s.clock.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	s.d.users[user.ID] = *user
	return nil
}

func (s *Store) FindUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	unlock, err := s.lock("FindUserByID")
	if err != nil {
		return nil, err
	}
	defer unlock()

	u, ok := s.d.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *Store) findUser(match func(models.User) bool) (*models.User, error) {
	for _, u := range s.d.users {
		if match(u) {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	unlock, err := s.lock("FindUserByEmail")
	if err != nil {
		return nil, err
	}
	defer unlock()
	return s.findUser(func(u models.User) bool { return u.Email == email })
}

func (s *Store) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	unlock, err := s.lock("FindUserByUsername")
	if err != nil {
		return nil, err
	}
	defer unlock()
	return s.findUser(func(u models.User) bool { return u.Username == username })
}

func (s *Store) UserExists(_ context.Context, email, username string) (bool, error) {
	unlock, err := s.lock("UserExists")
	if err != nil {
		return false, err
	}
	defer unlock()

	_, err = s.findUser(func(u models.User) bool { return u.Email == email || u.Username == username })
	return err == nil, nil
}

func (s *Store) UpdateUserProfile(_ context.Context, id uuid.UUID, username, bio *string) error {
	unlock, err := s.lock("UpdateUserProfile")
	if err != nil {
		return err
	}
	defer unlock()

	u, ok := s.d.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if username != nil {
		for otherID, other := range s.d.users {
			if otherID != id && other.Username == *username {
				return fmt.Errorf("%w: users username", repository.ErrDuplicate)
			}
		}
		u.Username = *username
	}
	if bio != nil {
		u.Bio = *bio
	}
	u.UpdatedAt = s.clock.now()
	s.d.users[id] = u
	return nil
}

func (s *Store) UpdateUserRole(_ context.Context, id uuid.UUID, role models.Role) error {
	unlock, err := s.lock("UpdateUserRole")
	if err != nil {
		return err
	}
	defer unlock()

	u, ok := s.d.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = s.clock.now()
	s.d.users[id] = u
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id uuid.UUID) error {
	unlock, err := s.lock("DeleteUser")
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.d.users[id]; !ok {
		return repository.ErrNotFound
	}
	for likeID, l := range s.d.likes {
		if l.UserID == id || s.d.posts[l.PostID].UserID == id {
			delete(s.d.likes, likeID)
		}
	}
	for followID, f := range s.d.follows {
		if f.FollowerID == id || f.FollowingID == id {
			delete(s.d.follows, followID)
		}
	}
	for blockID, b := range s.d.blocks {
		if b.BlockerID == id || b.BlockedID == id {
			delete(s.d.blocks, blockID)
		}
	}
	kept := s.d.activities[:0:0]
	for _, a := range s.d.activities {
		if a.ActorID != id {
			kept = append(kept, a)
		}
	}
	s.d.activities = kept
	for postID, p := range s.d.posts {
		if p.UserID == id {
			delete(s.d.posts, postID)
		}
	}
	delete(s.d.users, id)
	return nil
}

func (s *Store) UserStats(_ context.Context, id uuid.UUID) (models.UserStats, error) {
	var stats models.UserStats
	unlock, err := s.lock("UserStats")
	if err != nil {
		return stats, err
	}
	defer unlock()

	for _, p := range s.d.posts {
		if p.UserID == id {
			stats.Posts++
		}
	}
	for _, f := range s.d.follows {
		if f.FollowingID == id {
			stats.Followers++
		}
		if f.FollowerID == id {
			stats.Following++
		}
	}
	return stats, nil
}

// --- follows & blocks ---

func (s *Store) FindFollow(_ context.Context, followerID, followingID uuid.UUID) (*models.Follow, error) {
	unlock, err := s.lock("FindFollow")
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, f := range s.d.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			return &f, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) CreateFollow(_ context.Context, follow *models.Follow) error {
	unlock, err := s.lock("CreateFollow")
	if err != nil {
		return err
	}
	defer unlock()

	for _, f := range s.d.follows {
		if f.FollowerID == follow.FollowerID && f.FollowingID == follow.FollowingID {
			return fmt.Errorf("%w: follows pair", repository.ErrDuplicate)
		}
	}
	for _, id := range []uuid.UUID{follow.FollowerID, follow.FollowingID} {
		if _, ok := s.d.users[id]; !ok {
			return fkViolation("follows", id)
		}
	}
	if follow.ID == uuid.Nil {
		follow.ID = uuid.New()
	}
	follow.CreatedAt = s.clock.now()
	s.d.follows[follow.ID] = *follow
	return nil
}

func (s *Store) DeleteFollow(_ context.Context, followerID, followingID uuid.UUID) error {
	unlock, err := s.lock("DeleteFollow")
	if err != nil {
		return err
	}
	defer unlock()

	for id, f := range s.d.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			delete(s.d.follows, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) DeleteFollowsBetween(_ context.Context, a, b uuid.UUID) (int64, error) {
	unlock, err := s.lock("DeleteFollowsBetween")
	if err != nil {
		return 0, err
	}
	defer unlock()

	var n int64
	for id, f := range s.d.follows {
		if (f.FollowerID == a && f.FollowingID == b) || (f.FollowerID == b && f.FollowingID == a) {
			delete(s.d.follows, id)
			n++
		}
	}
	return n, nil
}

func (s *Store) FindBlock(_ context.Context, blockerID, blockedID uuid.UUID) (*models.Block, error) {
	unlock, err := s.lock("FindBlock")
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, b := range s.d.blocks {
		if b.BlockerID == blockerID && b.BlockedID == blockedID {
			return &b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) BlockExistsBetween(_ context.Context, a, b uuid.UUID) (bool, error) {
	unlock, err := s.lock("BlockExistsBetween")
	if err != nil {
		return false, err
	}
	defer unlock()

	for _, blk := range s.d.blocks {
		if (blk.BlockerID == a && blk.BlockedID == b) || (blk.BlockerID == b && blk.BlockedID == a) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListBlocksInvolving(_ context.Context, userID uuid.UUID) ([]models.Block, error) {
	unlock, err := s.lock("ListBlocksInvolving")
	if err != nil {
		return nil, err
	}
	defer unlock()

	var blocks []models.Block
	for _, b := range s.d.blocks {
		if b.BlockerID == userID || b.BlockedID == userID {
			blocks = append(blocks, b)
		}
	}
	return blocks, nil
}

func (s *Store) CreateBlock(_ context.Context, block *models.Block) error {
	unlock, err := s.lock("CreateBlock")
	if err != nil {
		return err
	}
	defer unlock()

	for _, b := range s.d.blocks {
		if b.BlockerID == block.BlockerID && b.BlockedID == block.BlockedID {
			return fmt.Errorf("%w: blocks pair", repository.ErrDuplicate)
		}
	}
	for _, id := range []uuid.UUID{block.BlockerID, block.BlockedID} {
		if _, ok := s.d.users[id]; !ok {
			return fkViolation("blocks", id)
		}
	}
	if block.ID == uuid.Nil {
		block.ID = uuid.New()
	}
	block.CreatedAt = s.clock.now()
	s.d.blocks[block.ID] = *block
	return nil
}

func (s *Store) DeleteBlock(_ context.Context, blockerID, blockedID uuid.UUID) error {
	unlock, err := s.lock("DeleteBlock")
	if err != nil {
		return err
	}
	defer unlock()

	for id, b := range s.d.blocks {
		if b.BlockerID == blockerID && b.BlockedID == blockedID {
			delete(s.d.blocks, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- posts & likes ---

func (s *Store) postView(p models.Post) models.PostView {
	var likes int64
	for _, l := range s.d.likes {
		if l.PostID == p.ID {
			likes++
		}
	}
	return models.PostView{
		ID:         p.ID,
		Content:    p.Content,
		UserID:     p.UserID,
		Username:   s.d.users[p.UserID].Username,
		LikesCount: likes,
		CreatedAt:  p.CreatedAt,
	}
}

func (s *Store) CreatePost(_ context.Context, post *models.Post) error {
	unlock, err := s.lock("CreatePost")
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.d.users[post.UserID]; !ok {
		return fkViolation("posts", post.UserID)
	}
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = s.clock.now()
	}
	s.d.posts[post.ID] = *post
	return nil
}

func (s *Store) FindPost(_ context.Context, id uuid.UUID) (*models.PostView, error) {
	unlock, err := s.lock("FindPost")
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, ok := s.d.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	view := s.postView(p)
	return &view, nil
}

func (s *Store) filteredPosts(excludeAuthors []uuid.UUID) []models.Post {
	skip := excluded(excludeAuthors)
	posts := make([]models.Post, 0, len(s.d.posts))
	for _, p := range s.d.posts {
		if !skip[p.UserID] {
			posts = append(posts, p)
		}
	}
	return posts
}

func (s *Store) ListPosts(_ context.Context, excludeAuthors []uuid.UUID, offset, limit int) ([]models.PostView, error) {
	unlock, err := s.lock("ListPosts")
	if err != nil {
		return nil, err
	}
	defer unlock()

	posts := s.filteredPosts(excludeAuthors)
	sort.Slice(posts, func(i, j int) bool {
		return newer(posts[i].CreatedAt, posts[j].CreatedAt, posts[i].ID, posts[j].ID)
	})

	selected := page(posts, offset, limit)
	views := make([]models.PostView, len(selected))
	for i, p := range selected {
		views[i] = s.postView(p)
	}
	return views, nil
}

func (s *Store) CountPosts(_ context.Context, excludeAuthors []uuid.UUID) (int64, error) {
	unlock, err := s.lock("CountPosts")
	if err != nil {
		return 0, err
	}
	defer unlock()
	return int64(len(s.filteredPosts(excludeAuthors))), nil
}

func (s *Store) DeletePost(_ context.Context, id uuid.UUID) error {
	unlock, err := s.lock("DeletePost")
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.d.posts[id]; !ok {
		return repository.ErrNotFound
	}
	for likeID, l := range s.d.likes {
		if l.PostID == id {
			delete(s.d.likes, likeID)
		}
	}
	delete(s.d.posts, id)
	return nil
}

func (s *Store) FindLike(_ context.Context, userID, postID uuid.UUID) (*models.Like, error) {
	unlock, err := s.lock("FindLike")
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, l := range s.d.likes {
		if l.UserID == userID && l.PostID == postID {
			return &l, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) FindLikeByID(_ context.Context, id uuid.UUID) (*models.Like, error) {
	unlock, err := s.lock("FindLikeByID")
	if err != nil {
		return nil, err
	}
	defer unlock()

	l, ok := s.d.likes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (s *Store) CreateLike(_ context.Context, like *models.Like) error {
	unlock, err := s.lock("CreateLike")
	if err != nil {
		return err
	}
	defer unlock()

	for _, l := range s.d.likes {
		if l.UserID == like.UserID && l.PostID == like.PostID {
			return fmt.Errorf("%w: likes user/post", repository.ErrDuplicate)
		}
	}
	if _, ok := s.d.users[like.UserID]; !ok {
		return fkViolation("likes", like.UserID)
	}
	if _, ok := s.d.posts[like.PostID]; !ok {
		return fkViolation("likes", like.PostID)
	}
	if like.ID == uuid.Nil {
		like.ID = uuid.New()
	}
	like.CreatedAt = s.clock.now()
	s.d.likes[like.ID] = *like
	return nil
}

func (s *Store) DeleteLike(_ context.Context, id uuid.UUID) error {
	unlock, err := s.lock("DeleteLike")
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.d.likes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.d.likes, id)
	return nil
}

// --- activities ---

func (s *Store) CreateActivity(_ context.Context, activity *models.Activity) error {
	unlock, err := s.lock("CreateActivity")
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.d.users[activity.ActorID]; !ok {
		return fkViolation("activities", activity.ActorID)
	}
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	activity.CreatedAt = s.clock.now()
	s.d.activities = append(s.d.activities, *activity)
	return nil
}

func (s *Store) filteredActivities(excludeActors []uuid.UUID) []models.Activity {
	skip := excluded(excludeActors)
	out := make([]models.Activity, 0, len(s.d.activities))
	for _, a := range s.d.activities {
		if !skip[a.ActorID] {
			out = append(out, a)
		}
	}
	return out
}

func (s *Store) ListActivities(_ context.Context, excludeActors []uuid.UUID, offset, limit int) ([]models.ActivityView, error) {
	unlock, err := s.lock("ListActivities")
	if err != nil {
		return nil, err
	}
	defer unlock()

	activities := s.filteredActivities(excludeActors)
	sort.Slice(activities, func(i, j int) bool {
		return newer(activities[i].CreatedAt, activities[j].CreatedAt, activities[i].ID, activities[j].ID)
	})

	selected := page(activities, offset, limit)
	views := make([]models.ActivityView, len(selected))
	for i, a := range selected {
		views[i] = models.ActivityView{
			Activity:      a,
			ActorUsername: s.d.users[a.ActorID].Username,
		}
		if a.PostID != nil {
			if p, ok := s.d.posts[*a.PostID]; ok {
				content := p.Content
				views[i].PostContent = &content
			}
		}
	}
	return views, nil
}

func (s *Store) CountActivities(_ context.Context, excludeActors []uuid.UUID) (int64, error) {
	unlock, err := s.lock("CountActivities")
	if err != nil {
		return 0, err
	}
	defer unlock()
	return int64(len(s.filteredActivities(excludeActors))), nil
}
