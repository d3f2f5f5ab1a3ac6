package testutil

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wayfare/wayfare-backend/internal/domain"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	ByID     map[uuid.UUID]*domain.User
	ByEmail  map[string]*domain.User
	CreateFn func(user *domain.User) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID:    make(map[uuid.UUID]*domain.User),
		ByEmail: make(map[string]*domain.User),
	}
}

// Create creates a new user
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(user)
	}
	email := strings.ToLower(user.Email)
	if _, exists := m.ByEmail[email]; exists {
		return nil, domain.ErrUserAlreadyExists
	}
	user.ID = uuid.New()
	user.Email = email
	m.ByID[user.ID] = user
	m.ByEmail[email] = user
	return user, nil
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email
func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	if user, ok := m.ByEmail[strings.ToLower(email)]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// Update updates an existing user
func (m *MockUserRepository) Update(user *domain.User) (*domain.User, error) {
	if _, ok := m.ByID[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	m.ByID[user.ID] = user
	m.ByEmail[strings.ToLower(user.Email)] = user
	return user, nil
}

// CountUsers returns the total number of users
func (m *MockUserRepository) CountUsers() (int64, error) {
	return int64(len(m.ByID)), nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.ByID[user.ID] = user
	m.ByEmail[strings.ToLower(user.Email)] = user
}

// MockEventRepository is a mock implementation of domain.EventRepository
type MockEventRepository struct {
	Events       map[uuid.UUID]*domain.Event
	MembersByKey map[string]*domain.EventMember
	Recent       []*domain.RecentEvent
	CreateFn     func(event *domain.Event, ownerID uuid.UUID) (*domain.Event, error)
	GetByIDFn    func(id uuid.UUID) (*domain.Event, error)
	AddMemberFn  func(eventID, userID uuid.UUID, role domain.MemberRole) (*domain.EventMember, error)
}

// NewMockEventRepository creates a new MockEventRepository
func NewMockEventRepository() *MockEventRepository {
	return &MockEventRepository{
		Events:       make(map[uuid.UUID]*domain.Event),
		MembersByKey: make(map[string]*domain.EventMember),
	}
}

func memberKey(eventID, userID uuid.UUID) string {
	return eventID.String() + ":" + userID.String()
}

// Create creates a new event with the creator as owner
func (m *MockEventRepository) Create(event *domain.Event, ownerID uuid.UUID) (*domain.Event, error) {
	if m.CreateFn != nil {
		return m.CreateFn(event, ownerID)
	}
	event.ID = uuid.New()
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	m.Events[event.ID] = event
	member := &domain.EventMember{
		ID:       uuid.New(),
		EventID:  event.ID,
		UserID:   ownerID,
		Role:     domain.RoleOwner,
		JoinedAt: time.Now(),
	}
	m.MembersByKey[memberKey(event.ID, ownerID)] = member
	return event, nil
}

// GetByID retrieves an event by ID
func (m *MockEventRepository) GetByID(id uuid.UUID) (*domain.Event, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(id)
	}
	if event, ok := m.Events[id]; ok {
		return event, nil
	}
	return nil, domain.ErrEventNotFound
}

// GetByUserID retrieves all events the user is a member of
func (m *MockEventRepository) GetByUserID(userID uuid.UUID) ([]*domain.Event, error) {
	events := []*domain.Event{}
	for _, member := range m.MembersByKey {
		if member.UserID != userID {
			continue
		}
		if event, ok := m.Events[member.EventID]; ok {
			events = append(events, event)
		}
	}
	return events, nil
}

// Update updates an event
func (m *MockEventRepository) Update(id uuid.UUID, update *domain.EventUpdate) (*domain.Event, error) {
	event, ok := m.Events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if update.Name != nil {
		event.Name = *update.Name
	}
	if update.Description != nil {
		event.Description = update.Description
	}
	if update.StartAt != nil {
		event.StartAt = *update.StartAt
	}
	if update.EndAt != nil {
		event.EndAt = *update.EndAt
	}
	if update.CoverImage != nil {
		event.CoverImage = update.CoverImage
	}
	if update.Currency != nil {
		event.Currency = *update.Currency
	}
	event.UpdatedAt = time.Now()
	return event, nil
}

// Delete deletes an event
func (m *MockEventRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Events[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(m.Events, id)
	for key, member := range m.MembersByKey {
		if member.EventID == id {
			delete(m.MembersByKey, key)
		}
	}
	return nil
}

// AddMember adds a member to an event
func (m *MockEventRepository) AddMember(eventID, userID uuid.UUID, role domain.MemberRole) (*domain.EventMember, error) {
	if m.AddMemberFn != nil {
		return m.AddMemberFn(eventID, userID, role)
	}
	if _, ok := m.Events[eventID]; !ok {
		return nil, domain.ErrEventNotFound
	}
	key := memberKey(eventID, userID)
	if _, exists := m.MembersByKey[key]; exists {
		return nil, domain.ErrAlreadyMember
	}
	member := &domain.EventMember{
		ID:       uuid.New(),
		EventID:  eventID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
	}
	m.MembersByKey[key] = member
	return member, nil
}

// RemoveMember removes a member from an event
func (m *MockEventRepository) RemoveMember(eventID, userID uuid.UUID) error {
	key := memberKey(eventID, userID)
	if _, ok := m.MembersByKey[key]; !ok {
		return domain.ErrNotMember
	}
	delete(m.MembersByKey, key)
	return nil
}

// GetMembers retrieves all members of an event
func (m *MockEventRepository) GetMembers(eventID uuid.UUID) ([]*domain.EventMember, error) {
	members := []*domain.EventMember{}
	for _, member := range m.MembersByKey {
		if member.EventID == eventID {
			members = append(members, member)
		}
	}
	return members, nil
}

// GetMemberRole retrieves a member's role in an event
func (m *MockEventRepository) GetMemberRole(eventID, userID uuid.UUID) (domain.MemberRole, error) {
	if member, ok := m.MembersByKey[memberKey(eventID, userID)]; ok {
		return member.Role, nil
	}
	return "", domain.ErrNotMember
}

// IsMember checks whether a user is a member of an event
func (m *MockEventRepository) IsMember(eventID, userID uuid.UUID) (bool, error) {
	_, ok := m.MembersByKey[memberKey(eventID, userID)]
	return ok, nil
}

// CountEvents returns the total number of events
func (m *MockEventRepository) CountEvents() (int64, error) {
	return int64(len(m.Events)), nil
}

// CountMembers returns the total number of event memberships
func (m *MockEventRepository) CountMembers() (int64, error) {
	return int64(len(m.MembersByKey)), nil
}

// GetRecentEvents returns the most recently created events
func (m *MockEventRepository) GetRecentEvents(limit int32) ([]*domain.RecentEvent, error) {
	if m.Recent == nil {
		return []*domain.RecentEvent{}, nil
	}
	if int32(len(m.Recent)) > limit {
		return m.Recent[:limit], nil
	}
	return m.Recent, nil
}

// AddEvent adds an event to the mock repository (helper for tests)
func (m *MockEventRepository) AddEvent(event *domain.Event) {
	m.Events[event.ID] = event
}

// AddEventMember adds a membership to the mock repository (helper for tests)
func (m *MockEventRepository) AddEventMember(member *domain.EventMember) {
	m.MembersByKey[memberKey(member.EventID, member.UserID)] = member
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses     map[uuid.UUID]*domain.Expense
	Splits       map[uuid.UUID]*domain.ExpenseSplit
	CreateFn     func(expense *domain.Expense) (*domain.Expense, error)
	GetByEventFn func(eventID uuid.UUID) ([]*domain.Expense, error)
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[uuid.UUID]*domain.Expense),
		Splits:   make(map[uuid.UUID]*domain.ExpenseSplit),
	}
}

// Create creates a new expense with its splits
func (m *MockExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	if m.CreateFn != nil {
		return m.CreateFn(expense)
	}
	expense.ID = uuid.New()
	expense.CreatedAt = time.Now()
	expense.UpdatedAt = expense.CreatedAt
	for _, split := range expense.Splits {
		split.ID = uuid.New()
		split.ExpenseID = expense.ID
		m.Splits[split.ID] = split
	}
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// GetByID retrieves an expense by ID
func (m *MockExpenseRepository) GetByID(id uuid.UUID) (*domain.Expense, error) {
	if expense, ok := m.Expenses[id]; ok {
		return expense, nil
	}
	return nil, domain.ErrExpenseNotFound
}

// GetByEventID retrieves all expenses for an event
func (m *MockExpenseRepository) GetByEventID(eventID uuid.UUID) ([]*domain.Expense, error) {
	if m.GetByEventFn != nil {
		return m.GetByEventFn(eventID)
	}
	expenses := []*domain.Expense{}
	for _, expense := range m.Expenses {
		if expense.EventID == eventID {
			expenses = append(expenses, expense)
		}
	}
	return expenses, nil
}

// Update updates an expense
func (m *MockExpenseRepository) Update(id uuid.UUID, update *domain.ExpenseUpdate) (*domain.Expense, error) {
	expense, ok := m.Expenses[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	if update.Amount != nil {
		expense.Amount = *update.Amount
	}
	if update.Title != nil {
		expense.Title = *update.Title
	}
	if update.Description != nil {
		expense.Description = update.Description
	}
	if update.Category != nil {
		expense.Category = update.Category
	}
	if update.Date != nil {
		expense.Date = *update.Date
	}
	if update.Location != nil {
		expense.Location = update.Location
	}
	expense.UpdatedAt = time.Now()
	return expense, nil
}

// Delete deletes an expense and its splits
func (m *MockExpenseRepository) Delete(id uuid.UUID) error {
	expense, ok := m.Expenses[id]
	if !ok {
		return domain.ErrExpenseNotFound
	}
	for _, split := range expense.Splits {
		delete(m.Splits, split.ID)
	}
	delete(m.Expenses, id)
	return nil
}

// GetSplitByID retrieves a split by ID
func (m *MockExpenseRepository) GetSplitByID(id uuid.UUID) (*domain.ExpenseSplit, error) {
	if split, ok := m.Splits[id]; ok {
		return split, nil
	}
	return nil, domain.ErrSplitNotFound
}

// MarkSplitSettled sets a split's settled flag
func (m *MockExpenseRepository) MarkSplitSettled(id uuid.UUID, settled bool) (*domain.ExpenseSplit, error) {
	split, ok := m.Splits[id]
	if !ok {
		return nil, domain.ErrSplitNotFound
	}
	split.Settled = settled
	if settled {
		now := time.Now()
		split.SettledAt = &now
	} else {
		split.SettledAt = nil
	}
	return split, nil
}

// GetUnsettledSplitsByUser retrieves all unsettled splits for a user
func (m *MockExpenseRepository) GetUnsettledSplitsByUser(userID uuid.UUID) ([]*domain.ExpenseSplit, error) {
	splits := []*domain.ExpenseSplit{}
	for _, split := range m.Splits {
		if split.UserID == userID && !split.Settled {
			splits = append(splits, split)
		}
	}
	return splits, nil
}

// CountExpenses returns the total number of expenses
func (m *MockExpenseRepository) CountExpenses() (int64, error) {
	return int64(len(m.Expenses)), nil
}

// SumExpenses returns the total amount of all expenses
func (m *MockExpenseRepository) SumExpenses() (decimal.Decimal, error) {
	total := decimal.Zero
	for _, expense := range m.Expenses {
		total = total.Add(expense.Amount)
	}
	return total, nil
}

// AddExpense adds an expense and its splits to the mock repository (helper for tests)
func (m *MockExpenseRepository) AddExpense(expense *domain.Expense) {
	m.Expenses[expense.ID] = expense
	for _, split := range expense.Splits {
		m.Splits[split.ID] = split
	}
}

// MockTimelineRepository is a mock implementation of domain.TimelineRepository
type MockTimelineRepository struct {
	Timelines map[uuid.UUID]*domain.Timeline
	ByEvent   map[uuid.UUID]*domain.Timeline
	Items     map[uuid.UUID]*domain.TimelineItem
	CreateFn  func(eventID uuid.UUID) (*domain.Timeline, error)
}

// NewMockTimelineRepository creates a new MockTimelineRepository
func NewMockTimelineRepository() *MockTimelineRepository {
	return &MockTimelineRepository{
		Timelines: make(map[uuid.UUID]*domain.Timeline),
		ByEvent:   make(map[uuid.UUID]*domain.Timeline),
		Items:     make(map[uuid.UUID]*domain.TimelineItem),
	}
}

// Create creates a timeline for an event
func (m *MockTimelineRepository) Create(eventID uuid.UUID) (*domain.Timeline, error) {
	if m.CreateFn != nil {
		return m.CreateFn(eventID)
	}
	if _, exists := m.ByEvent[eventID]; exists {
		return nil, domain.ErrTimelineExists
	}
	timeline := &domain.Timeline{
		ID:        uuid.New(),
		EventID:   eventID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.Timelines[timeline.ID] = timeline
	m.ByEvent[eventID] = timeline
	return timeline, nil
}

// GetByID retrieves a timeline by ID
func (m *MockTimelineRepository) GetByID(id uuid.UUID) (*domain.Timeline, error) {
	if timeline, ok := m.Timelines[id]; ok {
		return m.withItems(timeline), nil
	}
	return nil, domain.ErrTimelineNotFound
}

// GetByEventID retrieves the timeline for an event
func (m *MockTimelineRepository) GetByEventID(eventID uuid.UUID) (*domain.Timeline, error) {
	if timeline, ok := m.ByEvent[eventID]; ok {
		return m.withItems(timeline), nil
	}
	return nil, domain.ErrTimelineNotFound
}

func (m *MockTimelineRepository) withItems(timeline *domain.Timeline) *domain.Timeline {
	items := []*domain.TimelineItem{}
	for _, item := range m.Items {
		if item.TimelineID == timeline.ID {
			items = append(items, item)
		}
	}
	timeline.Items = items
	return timeline
}

// CreateItem creates a new timeline item
func (m *MockTimelineRepository) CreateItem(item *domain.TimelineItem) (*domain.TimelineItem, error) {
	if _, ok := m.Timelines[item.TimelineID]; !ok {
		return nil, domain.ErrTimelineNotFound
	}
	item.ID = uuid.New()
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	m.Items[item.ID] = item
	return item, nil
}

// GetItemByID retrieves a timeline item by ID
func (m *MockTimelineRepository) GetItemByID(id uuid.UUID) (*domain.TimelineItem, error) {
	if item, ok := m.Items[id]; ok {
		return item, nil
	}
	return nil, domain.ErrTimelineItemNotFound
}

// UpdateItem updates a timeline item
func (m *MockTimelineRepository) UpdateItem(id uuid.UUID, update *domain.TimelineItemUpdate) (*domain.TimelineItem, error) {
	item, ok := m.Items[id]
	if !ok {
		return nil, domain.ErrTimelineItemNotFound
	}
	if update.Title != nil {
		item.Title = *update.Title
	}
	if update.Description != nil {
		item.Description = update.Description
	}
	if update.Location != nil {
		item.Location = update.Location
	}
	if update.StartTime != nil {
		item.StartTime = *update.StartTime
	}
	if update.ClearEndTime {
		item.EndTime = nil
	} else if update.EndTime != nil {
		item.EndTime = update.EndTime
	}
	if update.Order != nil {
		item.Order = *update.Order
	}
	if update.Color != nil {
		item.Color = update.Color
	}
	if update.Completed != nil {
		item.Completed = *update.Completed
	}
	item.UpdatedAt = time.Now()
	return item, nil
}

// DeleteItem deletes a timeline item
func (m *MockTimelineRepository) DeleteItem(id uuid.UUID) error {
	if _, ok := m.Items[id]; !ok {
		return domain.ErrTimelineItemNotFound
	}
	delete(m.Items, id)
	return nil
}

// ReorderItems applies new order values to timeline items
func (m *MockTimelineRepository) ReorderItems(orders []domain.ItemOrder) error {
	for _, order := range orders {
		item, ok := m.Items[order.ID]
		if !ok {
			return domain.ErrTimelineItemNotFound
		}
		item.Order = order.Order
	}
	return nil
}

// AddTimeline adds a timeline to the mock repository (helper for tests)
func (m *MockTimelineRepository) AddTimeline(timeline *domain.Timeline) {
	m.Timelines[timeline.ID] = timeline
	m.ByEvent[timeline.EventID] = timeline
	for _, item := range timeline.Items {
		m.Items[item.ID] = item
	}
}

// AddItem adds a timeline item to the mock repository (helper for tests)
func (m *MockTimelineRepository) AddItem(item *domain.TimelineItem) {
	m.Items[item.ID] = item
}

// MockNoteRepository is a mock implementation of domain.NoteRepository
type MockNoteRepository struct {
	Notes    map[uuid.UUID]*domain.Note
	CreateFn func(note *domain.Note) (*domain.Note, error)
}

// NewMockNoteRepository creates a new MockNoteRepository
func NewMockNoteRepository() *MockNoteRepository {
	return &MockNoteRepository{
		Notes: make(map[uuid.UUID]*domain.Note),
	}
}

// Create creates a new note
func (m *MockNoteRepository) Create(note *domain.Note) (*domain.Note, error) {
	if m.CreateFn != nil {
		return m.CreateFn(note)
	}
	note.ID = uuid.New()
	note.CreatedAt = time.Now()
	note.UpdatedAt = note.CreatedAt
	m.Notes[note.ID] = note
	return note, nil
}

// GetByID retrieves a note by ID
func (m *MockNoteRepository) GetByID(id uuid.UUID) (*domain.Note, error) {
	if note, ok := m.Notes[id]; ok {
		return note, nil
	}
	return nil, domain.ErrNoteNotFound
}

// GetByEventID retrieves all notes attached to an event
func (m *MockNoteRepository) GetByEventID(eventID uuid.UUID) ([]*domain.Note, error) {
	notes := []*domain.Note{}
	for _, note := range m.Notes {
		if note.EventID != nil && *note.EventID == eventID {
			notes = append(notes, note)
		}
	}
	return notes, nil
}

// GetByExpenseID retrieves all notes attached to an expense
func (m *MockNoteRepository) GetByExpenseID(expenseID uuid.UUID) ([]*domain.Note, error) {
	notes := []*domain.Note{}
	for _, note := range m.Notes {
		if note.ExpenseID != nil && *note.ExpenseID == expenseID {
			notes = append(notes, note)
		}
	}
	return notes, nil
}

// GetByTimelineItemID retrieves all notes attached to a timeline item
func (m *MockNoteRepository) GetByTimelineItemID(itemID uuid.UUID) ([]*domain.Note, error) {
	notes := []*domain.Note{}
	for _, note := range m.Notes {
		if note.TimelineItemID != nil && *note.TimelineItemID == itemID {
			notes = append(notes, note)
		}
	}
	return notes, nil
}

// Update updates a note's content
func (m *MockNoteRepository) Update(id uuid.UUID, content string) (*domain.Note, error) {
	note, ok := m.Notes[id]
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	note.Content = content
	note.UpdatedAt = time.Now()
	return note, nil
}

// Delete deletes a note
func (m *MockNoteRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Notes[id]; !ok {
		return domain.ErrNoteNotFound
	}
	delete(m.Notes, id)
	return nil
}

// AddNote adds a note to the mock repository (helper for tests)
func (m *MockNoteRepository) AddNote(note *domain.Note) {
	m.Notes[note.ID] = note
}
