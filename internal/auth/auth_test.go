package auth

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestAuthenticateSuccess(t *testing.T) {
	a := New("correct horse battery staple")

	if a.IsAuthenticated(42) {
		t.Fatal("user authenticated before login")
	}

	if err := a.Authenticate(42, "correct horse battery staple"); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if !a.IsAuthenticated(42) {
		t.Error("user not authenticated after correct password")
	}
	if a.IsAuthenticated(43) {
		t.Error("unrelated user became authenticated")
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	a := New("secret")

	err := a.Authenticate(1, "guess")
	if !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("err = %v, want ErrInvalidPassword", err)
	}
	if a.IsAuthenticated(1) {
		t.Error("user authenticated despite wrong password")
	}
}

func TestAuthenticateTrimsWhitespace(t *testing.T) {
	a := New("secret")
	if err := a.Authenticate(1, "  secret \n"); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
}

func TestAuthenticateEmptyPassword(t *testing.T) {
	a := New("secret")
	if err := a.Authenticate(1, "   "); !errors.Is(err, ErrNoPassword) {
		t.Fatalf("err = %v, want ErrNoPassword", err)
	}
}

func TestBcryptSecret(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	a := New(hash)
	if err := a.Authenticate(1, "secret"); err != nil {
		t.Errorf("bcrypt verify failed: %v", err)
	}
	if err := a.Authenticate(2, "wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("err = %v, want ErrInvalidPassword", err)
	}
	// The hash itself must not work as the password.
	if err := a.Authenticate(3, hash); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("hash accepted as password: %v", err)
	}
}

func TestLockoutAfterRepeatedFailures(t *testing.T) {
	a := New("secret")
	now := time.Unix(1000000, 0)
	a.now = func() time.Time { return now }

	for i := 0; i < maxFailures; i++ {
		if err := a.Authenticate(7, "wrong"); !errors.Is(err, ErrInvalidPassword) {
			t.Fatalf("attempt %d: err = %v", i+1, err)
		}
	}

	// Even the correct password is rejected during lockout.
	err := a.Authenticate(7, "secret")
	var locked *LockedOutError
	if !errors.As(err, &locked) {
		t.Fatalf("err = %v, want LockedOutError", err)
	}
	if locked.Remaining <= 0 || locked.Remaining > lockoutPeriod {
		t.Errorf("Remaining = %v", locked.Remaining)
	}

	// Other users are unaffected.
	if err := a.Authenticate(8, "secret"); err != nil {
		t.Errorf("other user affected by lockout: %v", err)
	}

	// After the lockout expires the user may log in again.
	now = now.Add(lockoutPeriod + time.Second)
	if err := a.Authenticate(7, "secret"); err != nil {
		t.Errorf("Authenticate after lockout expiry: %v", err)
	}
}

func TestConcurrentAuthentication(t *testing.T) {
	a := New("secret")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_ = a.Authenticate(id, "secret")
			_ = a.IsAuthenticated(id)
		}(int64(i))
	}
	wg.Wait()

	if got := a.SessionCount(); got != 50 {
		t.Errorf("SessionCount = %d, want 50", got)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	now := time.Unix(2000000, 0)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !rl.Allow(1) {
			t.Fatalf("request %d denied within limit", i+1)
		}
	}
	if rl.Allow(1) {
		t.Error("request over the limit allowed")
	}
	if !rl.Allow(2) {
		t.Error("limit leaked to another user")
	}

	// Window slides: old hits expire.
	now = now.Add(61 * time.Second)
	if !rl.Allow(1) {
		t.Error("request denied after window expired")
	}
}
