package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/config"
)

func TestAppModuleResolves(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(dir, "app.db")
	cfg.Storage.Dir = filepath.Join(dir, "files")
	cfg.Server.StaticDir = dir

	require.NoError(t, fx.ValidateApp(appModule(cfg)))
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	require.ElementsMatch(t, []string{"serve", "migrate", "rates", "storage", "jobs"}, names)
	require.NotNil(t, root.PersistentFlags().Lookup("config"))
}
