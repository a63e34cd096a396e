package repository

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"hoyspace-api/database/dbtest"
	"hoyspace-api/models"

	"github.com/jmoiron/sqlx"
)

func seedUser(t *testing.T, db *sqlx.DB, email, role string) *models.User {
	t.Helper()
	u := &models.User{Name: "User " + email, Email: email, Password: "hash", Role: role}
	if err := NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func seedSpace(t *testing.T, db *sqlx.DB, host *models.User, title string) *models.Space {
	t.Helper()
	s := &models.Space{
		Title:     title,
		Location:  "Hodan District, Mogadishu",
		Price:     100,
		Images:    models.StringList{"a", "b"},
		Amenities: models.StringList{"Wifi"},
		HostID:    &host.ID,
	}
	if err := NewSpaceRepository(db).Create(context.Background(), s); err != nil {
		t.Fatalf("create space: %v", err)
	}
	return s
}

func seedBooking(t *testing.T, db *sqlx.DB, user *models.User, space *models.Space) *models.Booking {
	t.Helper()
	b := &models.Booking{
		UserID:     user.ID,
		SpaceID:    space.ID,
		CheckIn:    models.NewDate(2024, 1, 1),
		CheckOut:   models.NewDate(2024, 1, 5),
		TotalPrice: 400,
	}
	if err := NewBookingRepository(db).Create(context.Background(), b); err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return b
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := NewUserRepository(db)

	u := seedUser(t, db, "amina@example.com", "")
	if u.Role != models.RoleUser || u.Image != models.DefaultAvatar {
		t.Fatalf("defaults not applied: %+v", u)
	}

	got, err := repo.FindByEmail(ctx, "amina@example.com")
	if err != nil || got.ID != u.ID {
		t.Fatalf("FindByEmail = %+v, %v", got, err)
	}
	if _, err := repo.FindByID(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindByID missing err = %v", err)
	}

	dup := &models.User{Name: "x", Email: "amina@example.com", Password: "p"}
	if err := repo.Create(ctx, dup); err == nil {
		t.Fatal("expected unique violation")
	}

	n, err := repo.Update(ctx, u.ID, models.UserUpdate{})
	if err != nil || n != 0 {
		t.Fatalf("empty update = %d, %v", n, err)
	}

	phone := "+252 61 000 0000"
	n, err = repo.Update(ctx, u.ID, models.UserUpdate{Phone: &phone})
	if err != nil || n != 1 {
		t.Fatalf("update = %d, %v", n, err)
	}
	got, _ = repo.FindByID(ctx, u.ID)
	if got.Phone != phone || got.Name != u.Name {
		t.Fatalf("partial update touched wrong fields: %+v", got)
	}
}

func TestUserRepositoryOTP(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := NewUserRepository(db)
	u := seedUser(t, db, "otp@example.com", models.RoleUser)

	nowT := time.Now().UTC()
	if _, err := repo.SaveOTP(ctx, u.ID, "123456", nowT.Add(10*time.Minute)); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.FindByOTP(ctx, u.Email, "123456", nowT); err != nil {
		t.Fatalf("valid otp rejected: %v", err)
	}
	if _, err := repo.FindByOTP(ctx, u.Email, "000000", nowT); !errors.Is(err, ErrNotFound) {
		t.Fatalf("wrong otp err = %v", err)
	}
	if _, err := repo.FindByOTP(ctx, u.Email, "123456", nowT.Add(11*time.Minute)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired otp err = %v", err)
	}

	if _, err := repo.Update(ctx, u.ID, models.UserUpdate{ClearResetCode: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.FindByOTP(ctx, u.Email, "123456", nowT); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cleared otp still valid: %v", err)
	}
}

func TestSpaceRoundTripKeepsListOrder(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	host := seedUser(t, db, "host@example.com", models.RoleAdmin)
	s := seedSpace(t, db, host, "Villa")

	got, err := NewSpaceRepository(db).FindByID(ctx, s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Images, models.StringList{"a", "b"}) {
		t.Errorf("images = %#v", got.Images)
	}
	if !reflect.DeepEqual(got.Amenities, models.StringList{"Wifi"}) {
		t.Errorf("amenities = %#v", got.Amenities)
	}
	if got.Category != models.DefaultCategory {
		t.Errorf("category = %q", got.Category)
	}
	if got.Host == nil || got.Host.ID != host.ID || got.Host.Email != host.Email {
		t.Errorf("host = %+v", got.Host)
	}
}

func TestSpaceFilters(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	host := seedUser(t, db, "host@example.com", models.RoleAdmin)
	repo := NewSpaceRepository(db)

	for _, s := range []*models.Space{
		{Title: "Beach Villa", Location: "Liido Beach", Category: "Beachfront"},
		{Title: "Cabin", Description: "quiet retreat near the beach", Location: "Daynile", Category: "Cabin"},
		{Title: "Penthouse", Location: "Hodan District", Category: "Luxury"},
	} {
		s.HostID = &host.ID
		if err := repo.Create(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	cases := []struct {
		name   string
		filter models.SpaceFilter
		want   int
	}{
		{"none", models.SpaceFilter{}, 3},
		{"search matches title and description", models.SpaceFilter{Search: "beach"}, 2},
		{"location substring", models.SpaceFilter{Location: "Hodan"}, 1},
		{"category exact", models.SpaceFilter{Category: "Cabin"}, 1},
		{"category is not substring", models.SpaceFilter{Category: "Cab"}, 0},
		{"combined", models.SpaceFilter{Search: "beach", Category: "Beachfront"}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.GetAll(ctx, tc.filter)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tc.want {
				t.Fatalf("got %d spaces, want %d", len(got), tc.want)
			}
		})
	}
}

func TestSpaceIDsByHost(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	host := seedUser(t, db, "host@example.com", models.RoleAdmin)
	other := seedUser(t, db, "other@example.com", models.RoleAdmin)
	a := seedSpace(t, db, host, "A")
	seedSpace(t, db, other, "B")
	c := seedSpace(t, db, host, "C")

	repo := NewSpaceRepository(db)
	ids, err := repo.IDsByHost(ctx, host.ID)
	if err != nil || len(ids) != 2 || ids[0] != a.ID || ids[1] != c.ID {
		t.Fatalf("IDsByHost = %v, %v", ids, err)
	}
	ids, err = repo.IDsByHost(ctx, host.ID+100)
	if err != nil || len(ids) != 0 {
		t.Fatalf("unknown host = %v, %v", ids, err)
	}
}

func TestSpacePartialUpdate(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	host := seedUser(t, db, "host@example.com", models.RoleAdmin)
	s := seedSpace(t, db, host, "Villa")
	repo := NewSpaceRepository(db)

	n, err := repo.Update(ctx, s.ID, models.SpaceUpdate{})
	if err != nil || n != 0 {
		t.Fatalf("empty update = %d, %v", n, err)
	}
	after, _ := repo.FindByID(ctx, s.ID)
	if !after.UpdatedAt.Equal(s.UpdatedAt) {
		t.Error("empty update mutated the row")
	}

	images := models.StringList{"c", "a"}
	price := 250.0
	n, err = repo.Update(ctx, s.ID, models.SpaceUpdate{Images: &images, Price: &price})
	if err != nil || n != 1 {
		t.Fatalf("update = %d, %v", n, err)
	}
	after, _ = repo.FindByID(ctx, s.ID)
	if after.Title != "Villa" || after.Price != 250 || !reflect.DeepEqual(after.Images, images) {
		t.Fatalf("after update: %+v", after)
	}

	if n, _ := repo.Update(ctx, 999, models.SpaceUpdate{Price: &price}); n != 0 {
		t.Fatalf("update of missing row affected %d", n)
	}
}

func TestBookingRepository(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	renter := seedUser(t, db, "renter@example.com", models.RoleUser)
	other := seedUser(t, db, "other@example.com", models.RoleUser)
	space := seedSpace(t, db, admin, "Villa")
	repo := NewBookingRepository(db)

	first := seedBooking(t, db, renter, space)
	second := seedBooking(t, db, renter, space)
	seedBooking(t, db, other, space)

	if first.Status != models.BookingPending {
		t.Fatalf("status = %q", first.Status)
	}

	mine, err := repo.FindByUser(ctx, renter.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 2 || mine[0].ID != second.ID {
		t.Fatalf("mine not newest first: %+v", mine)
	}
	if mine[0].Space == nil || mine[0].Space.Title != "Villa" || len(mine[0].Space.Images) != 2 {
		t.Fatalf("space summary = %+v", mine[0].Space)
	}
	if mine[0].CheckIn.String() != "2024-01-01" || mine[0].CheckOut.String() != "2024-01-05" {
		t.Fatalf("dates = %s..%s", mine[0].CheckIn, mine[0].CheckOut)
	}

	all, err := repo.GetAll(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("GetAll = %d, %v", len(all), err)
	}
	if all[0].User == nil || all[0].User.Email != other.Email {
		t.Fatalf("user summary = %+v", all[0].User)
	}

	d, err := repo.FindByID(ctx, first.ID)
	if err != nil || d.User.ID != renter.ID || d.Space.ID != space.ID {
		t.Fatalf("FindByID = %+v, %v", d, err)
	}

	if n, _ := repo.Update(ctx, first.ID, models.BookingUpdate{}); n != 0 {
		t.Fatalf("empty update affected %d", n)
	}

	if n, _ := repo.TransitionStatus(ctx, first.ID, models.BookingPending, models.BookingConfirmed); n != 1 {
		t.Fatalf("transition affected %d", n)
	}
	if n, _ := repo.TransitionStatus(ctx, first.ID, models.BookingPending, models.BookingRejected); n != 0 {
		t.Fatalf("stale transition affected %d", n)
	}

	cancelled := models.BookingCancelled
	if n, err := repo.Update(ctx, first.ID, models.BookingUpdate{Status: &cancelled}); err != nil || n != 1 {
		t.Fatalf("partial update = %d, %v", n, err)
	}
	if d, _ := repo.FindByID(ctx, first.ID); d.Status != models.BookingCancelled || d.CheckIn.String() != "2024-01-01" {
		t.Fatalf("after partial update = %+v", d)
	}

	count, err := repo.CountByUser(ctx, renter.ID)
	if err != nil || count != 2 {
		t.Fatalf("CountByUser = %d, %v", count, err)
	}

	if n, _ := repo.Delete(ctx, first.ID); n != 1 {
		t.Fatalf("delete affected %d", n)
	}
	if n, _ := repo.Delete(ctx, first.ID); n != 0 {
		t.Fatalf("second delete affected %d", n)
	}
}

func TestDeletingSpaceCascadesBookings(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	renter := seedUser(t, db, "renter@example.com", models.RoleUser)
	space := seedSpace(t, db, admin, "Villa")
	b := seedBooking(t, db, renter, space)

	if _, err := NewSpaceRepository(db).Delete(ctx, space.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := NewBookingRepository(db).FindByID(ctx, b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("booking survived space delete: %v", err)
	}
}

func TestNotificationRepository(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	u := seedUser(t, db, "n@example.com", models.RoleUser)
	someoneElse := seedUser(t, db, "x@example.com", models.RoleUser)
	repo := NewNotificationRepository(db)

	first := &models.Notification{UserID: u.ID, Title: "one", Message: "m"}
	second := &models.Notification{UserID: u.ID, Title: "two", Message: "m", Type: models.NotificationBooking}
	for _, n := range []*models.Notification{first, second} {
		if err := repo.Create(ctx, n); err != nil {
			t.Fatal(err)
		}
	}
	if first.Type != models.NotificationSystem {
		t.Fatalf("default type = %q", first.Type)
	}

	list, err := repo.FindByUser(ctx, u.ID)
	if err != nil || len(list) != 2 || list[0].ID != second.ID || list[0].IsRead {
		t.Fatalf("FindByUser = %+v, %v", list, err)
	}

	if n, _ := repo.MarkRead(ctx, first.ID, someoneElse.ID); n != 0 {
		t.Fatalf("foreign mark read affected %d", n)
	}
	if _, err := repo.MarkRead(ctx, first.ID, u.ID); err != nil {
		t.Fatal(err)
	}
	got, _ := repo.FindByID(ctx, first.ID)
	if !got.IsRead {
		t.Fatal("notification not read")
	}
	if _, err := repo.MarkRead(ctx, first.ID, u.ID); err != nil {
		t.Fatalf("re-marking failed: %v", err)
	}

	unread, _ := repo.CountUnread(ctx, u.ID)
	if unread != 1 {
		t.Fatalf("unread = %d", unread)
	}
	if _, err := repo.MarkAllRead(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	if unread, _ = repo.CountUnread(ctx, u.ID); unread != 0 {
		t.Fatalf("unread after MarkAllRead = %d", unread)
	}
}

func TestMessageConversations(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	me := seedUser(t, db, "me@example.com", models.RoleUser)
	ali := seedUser(t, db, "ali@example.com", models.RoleUser)
	hodan := seedUser(t, db, "hodan@example.com", models.RoleUser)
	repo := NewMessageRepository(db)

	send := func(from, to *models.User, content string) {
		t.Helper()
		if err := repo.Create(ctx, &models.Message{SenderID: from.ID, ReceiverID: to.ID, Content: content}); err != nil {
			t.Fatal(err)
		}
	}
	send(ali, me, "hi")
	send(me, ali, "hello")
	send(ali, me, "are you there?")
	send(hodan, me, "booking question")

	thread, err := repo.Thread(ctx, me.ID, ali.ID)
	if err != nil || len(thread) != 3 || thread[0].Content != "hi" || thread[2].Sender.ID != ali.ID {
		t.Fatalf("Thread = %+v, %v", thread, err)
	}

	convs, err := repo.Conversations(ctx, me.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(convs) != 2 {
		t.Fatalf("got %d conversations", len(convs))
	}
	if convs[0].User.ID != hodan.ID || convs[0].UnreadCount != 1 {
		t.Fatalf("latest conversation = %+v", convs[0])
	}
	if convs[1].User.ID != ali.ID || convs[1].LastMessage != "are you there?" || convs[1].UnreadCount != 2 {
		t.Fatalf("ali conversation = %+v", convs[1])
	}

	if n, _ := repo.MarkThreadRead(ctx, me.ID, ali.ID); n != 2 {
		t.Fatalf("MarkThreadRead affected %d", n)
	}
	convs, _ = repo.Conversations(ctx, me.ID)
	if convs[1].UnreadCount != 0 {
		t.Fatalf("unread after mark = %d", convs[1].UnreadCount)
	}
}
