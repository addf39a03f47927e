package mux

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"sutda-server/pkg/table"
)

func TestMux_getAdminTable(t *testing.T) {
	a := assert.New(t)

	setupJWT()
	p1, j1 := player()

	ts := httptest.NewServer(NewMux(""))
	defer ts.Close()

	assertGet(t, ts, "/admin/table", nil, http.StatusForbidden, j1)

	_ = p1.SetIsSiteAdmin(cbg, true)

	var err errorResponse
	assertGet(t, ts, "/admin/table?rows=0", &err, http.StatusBadRequest, j1)
	a.Equal("rows must be greater than zero", err.Message)

	for i := 0; i < 5; i++ {
		_, err := p1.CreateTable(cbg, fmt.Sprintf("Table %d", i))
		a.NoError(err)
	}

	var tables []*table.TableWithPlayerEmail
	assertGet(t, ts, "/admin/table?rows=3", &tables, http.StatusOK, j1)
	a.Equal(3, len(tables))
	a.Equal(p1.Email, tables[0].Email)
	a.Equal("Table 4", tables[0].Name)
}

func TestMux_postTableUUIDBot(t *testing.T) {
	a := assert.New(t)

	setupJWT()
	ts := httptest.NewServer(NewMux(""))
	defer ts.Close()

	p1, j1 := player()
	tbl, _ := p1.CreateTable(cbg, "Bot Table")

	// non-admins at the table cannot seat a bot
	_, j2 := player()
	path := fmt.Sprintf("/table/%s/bot", tbl.UUID)
	assertPost(t, ts, path, nil, nil, http.StatusForbidden, j2)

	var pt *table.PlayerTable
	assertPost(t, ts, path, nil, &pt, http.StatusCreated, j1)
	a.True(pt.Player.IsBot)
	a.True(pt.Active)

	players, err := tbl.GetPlayers(cbg)
	a.NoError(err)
	a.Equal(2, len(players))
}
