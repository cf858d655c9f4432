package catalog

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/kotrzina/russtea/pkg/store"
)

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Login is a stub, any well formed email is accepted
// The user id is derived from the email so repeated logins return the same user.
func (c *Catalog) Login(email string) (User, error) {
	email, err := cleanEmail(email)
	if err != nil {
		return User{}, err
	}

	local, _, _ := strings.Cut(email, "@")
	return User{
		ID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String(),
		Email:    email,
		FullName: local,
	}, nil
}

func (c *Catalog) Favorites(email string) ([]store.Favorite, error) {
	email, err := cleanEmail(email)
	if err != nil {
		return nil, err
	}

	favorites, err := c.storage.GetFavorites(email)
	if err != nil {
		return nil, fmt.Errorf("could not load favorites: %w", err)
	}

	return favorites, nil
}

// AddFavorite marks a drink as favorite, adding it twice returns the existing favorite
func (c *Catalog) AddFavorite(email, drinkID string) (store.Favorite, error) {
	email, err := cleanEmail(email)
	if err != nil {
		return store.Favorite{}, err
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()

	// under the lock so a concurrent delete cannot leave the favorite dangling
	if _, err := c.Drink(drinkID); err != nil {
		return store.Favorite{}, err
	}

	favorites, err := c.storage.GetFavorites(email)
	if err != nil {
		return store.Favorite{}, fmt.Errorf("could not load favorites: %w", err)
	}
	for _, favorite := range favorites {
		if favorite.DrinkID == drinkID {
			return favorite, nil
		}
	}

	favorite := store.Favorite{
		ID:          uuid.NewString(),
		DrinkID:     drinkID,
		UserEmail:   email,
		CreatedDate: c.now().UTC(),
	}
	if err := c.storage.AddFavorite(favorite); err != nil {
		return store.Favorite{}, fmt.Errorf("could not add favorite: %w", err)
	}

	c.monitor.Favorites.WithLabelValues("add").Inc()
	return favorite, nil
}

func (c *Catalog) RemoveFavorite(id string) error {
	if err := c.storage.DeleteFavorite(id); err != nil {
		return fmt.Errorf("could not remove favorite %s: %w", id, err)
	}

	c.monitor.Favorites.WithLabelValues("remove").Inc()
	return nil
}

func cleanEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, "@") {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	return email, nil
}
