package logging

import "testing"

func TestParseLevel_Clamps(t *testing.T) {
	cases := map[int]Level{
		-1: Debug,
		0:  Debug,
		2:  Warning,
		4:  Fatal,
		9:  Fatal,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%d) = %v, want %v", in, got, want)
		}
	}
}

func TestInit_ConsoleOnly(t *testing.T) {
	logger := Init(Options{LogToFile: false, MinLevel: Info})
	logger.Info().Msg("console only smoke test")
	if err := Shutdown(); err != nil {
		t.Fatalf("Shutdown with no file sink should be a no-op: %v", err)
	}
}

func TestInit_WithFileSink(t *testing.T) {
	dir := t.TempDir()
	logger := Init(Options{LogToFile: true, LogDir: dir, MinLevel: Debug})
	logger.Debug().Msg("file sink smoke test")
	if err := Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
