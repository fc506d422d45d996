package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/think3er/ippo-backend/internal/testutil"
)

func Test_ClipHandler(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	type account struct {
		token  string
		userID string
	}

	type circleFixture struct {
		url      string
		circleID string
		owner    account
		member   account
	}

	withCircle := func(dbpool *pgxpool.Pool, t *testing.T, fn func(f circleFixture)) {
		testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
			router, _ := newTestRouter(t, tx)

			srv := httptest.NewServer(router)
			defer srv.Close()

			register := func(handle string) account {
				data := `{
					"email": "` + handle + `@example.com",
					"password": "StrongEnoughPassword",
					"name": "` + handle + `",
					"handle": "` + handle + `"
				}`
				resp, body := doRequest(t, "POST", srv.URL+"/auth/register", "", data)
				require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", string(body))

				var pair struct {
					User struct {
						ID string `json:"id"`
					} `json:"user"`
					AccessToken string `json:"accessToken"`
				}
				require.NoError(t, json.Unmarshal(body, &pair))
				return account{token: pair.AccessToken, userID: pair.User.ID}
			}

			owner := register("umar")
			member := register("bilal")

			resp, body := doRequest(t, "POST", srv.URL+"/circles", owner.token, `{"name": "Fajr Club"}`)
			require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", string(body))
			var created struct {
				Circle struct {
					ID         string `json:"id"`
					InviteCode string `json:"inviteCode"`
				} `json:"circle"`
			}
			require.NoError(t, json.Unmarshal(body, &created))

			resp, body = doRequest(t, "POST", srv.URL+"/circles/join", member.token, `{"inviteCode": "`+created.Circle.InviteCode+`"}`)
			require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", string(body))

			fn(circleFixture{
				url:      srv.URL,
				circleID: created.Circle.ID,
				owner:    owner,
				member:   member,
			})
		})
	}

	type clipBody struct {
		ID       string  `json:"id"`
		VideoURL string  `json:"videoUrl"`
		Title    *string `json:"title"`
		IsActive bool    `json:"isActive"`
		PostedBy struct {
			Handle string `json:"handle"`
		} `json:"postedBy"`
	}

	t.Run("current with nothing posted", func(t *testing.T) {
		withCircle(pg.Pool, t, func(f circleFixture) {
			resp, body := doRequest(t, "GET", f.url+"/circles/"+f.circleID+"/clips/current", f.owner.token, "")
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.JSONEq(t, `{"clip": null, "rotation": null}`, string(body))
		})
	})

	t.Run("post replaces the active clip", func(t *testing.T) {
		withCircle(pg.Pool, t, func(f circleFixture) {
			data := `{"videoUrl": "https://example.com/one.mp4", "title": "week one"}`
			resp, body := doRequest(t, "POST", f.url+"/circles/"+f.circleID+"/clips", f.owner.token, data)
			require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", string(body))

			var first struct {
				Clip clipBody `json:"clip"`
			}
			require.NoError(t, json.Unmarshal(body, &first))
			assert.True(t, first.Clip.IsActive)
			assert.Equal(t, "umar", first.Clip.PostedBy.Handle)

			data = `{"videoUrl": "https://example.com/two.mp4"}`
			resp, body = doRequest(t, "POST", f.url+"/circles/"+f.circleID+"/clips", f.member.token, data)
			require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", string(body))

			// Only the newest clip stays active
			resp, body = doRequest(t, "GET", f.url+"/circles/"+f.circleID+"/clips/current", f.owner.token, "")
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))

			var current struct {
				Clip *clipBody `json:"clip"`
			}
			require.NoError(t, json.Unmarshal(body, &current))
			require.NotNil(t, current.Clip)
			assert.Equal(t, "https://example.com/two.mp4", current.Clip.VideoURL)
			assert.Equal(t, "bilal", current.Clip.PostedBy.Handle)

			resp, body = doRequest(t, "GET", f.url+"/circles/"+f.circleID+"/clips", f.owner.token, "")
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))

			var history struct {
				Clips []clipBody `json:"clips"`
			}
			require.NoError(t, json.Unmarshal(body, &history))
			assert.Len(t, history.Clips, 2)
		})
	})

	t.Run("post with broken url fails", func(t *testing.T) {
		withCircle(pg.Pool, t, func(f circleFixture) {
			data := `{"videoUrl": "not a url"}`
			resp, body := doRequest(t, "POST", f.url+"/circles/"+f.circleID+"/clips", f.owner.token, data)

			require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", string(body))
		})
	})

	t.Run("rotation setup and turn reporting", func(t *testing.T) {
		withCircle(pg.Pool, t, func(f circleFixture) {
			resp, body := doRequest(t, "POST", f.url+"/circles/"+f.circleID+"/clips/rotation", f.owner.token, `{"intervalDays": 7}`)
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))

			var setup struct {
				Message  string `json:"message"`
				Rotation struct {
					CurrentUserID string   `json:"currentUserId"`
					RotationOrder []string `json:"rotationOrder"`
					IntervalDays  int      `json:"intervalDays"`
				} `json:"rotation"`
			}
			require.NoError(t, json.Unmarshal(body, &setup))
			assert.Equal(t, "Rotation updated", setup.Message)
			assert.Equal(t, 7, setup.Rotation.IntervalDays)
			assert.Len(t, setup.Rotation.RotationOrder, 2)
			assert.Contains(t, setup.Rotation.RotationOrder, setup.Rotation.CurrentUserID)

			// Each member sees own turn flag from the same state
			resp, body = doRequest(t, "GET", f.url+"/circles/"+f.circleID+"/clips/current", f.owner.token, "")
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))

			var current struct {
				Rotation *struct {
					CurrentUserID string `json:"currentUserId"`
					IntervalDays  int    `json:"intervalDays"`
					NeedsRotation bool   `json:"needsRotation"`
					IsMyTurn      bool   `json:"isMyTurn"`
				} `json:"rotation"`
			}
			require.NoError(t, json.Unmarshal(body, &current))
			require.NotNil(t, current.Rotation)
			assert.Equal(t, setup.Rotation.CurrentUserID, current.Rotation.CurrentUserID)
			assert.Equal(t, 7, current.Rotation.IntervalDays)
			assert.False(t, current.Rotation.NeedsRotation, "fresh rotation should not demand a new clip yet")
			assert.Equal(t, current.Rotation.CurrentUserID == f.owner.userID, current.Rotation.IsMyTurn)
		})
	})

	t.Run("posting hands the turn over", func(t *testing.T) {
		withCircle(pg.Pool, t, func(f circleFixture) {
			resp, body := doRequest(t, "POST", f.url+"/circles/"+f.circleID+"/clips/rotation", f.owner.token, `{}`)
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))

			var setup struct {
				Rotation struct {
					CurrentUserID string `json:"currentUserId"`
				} `json:"rotation"`
			}
			require.NoError(t, json.Unmarshal(body, &setup))

			// The member whose turn it is posts the clip
			poster := f.owner
			if setup.Rotation.CurrentUserID == f.member.userID {
				poster = f.member
			}

			data := `{"videoUrl": "https://example.com/turn.mp4"}`
			resp, body = doRequest(t, "POST", f.url+"/circles/"+f.circleID+"/clips", poster.token, data)
			require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", string(body))

			resp, body = doRequest(t, "GET", f.url+"/circles/"+f.circleID+"/clips/current", poster.token, "")
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))

			var current struct {
				Rotation *struct {
					CurrentUserID string `json:"currentUserId"`
					IsMyTurn      bool   `json:"isMyTurn"`
				} `json:"rotation"`
			}
			require.NoError(t, json.Unmarshal(body, &current))
			require.NotNil(t, current.Rotation)
			assert.NotEqual(t, setup.Rotation.CurrentUserID, current.Rotation.CurrentUserID, "turn should move to the next member")
			assert.False(t, current.Rotation.IsMyTurn, "poster just gave the turn away")
		})
	})
}
