package env

import "testing"

func TestSetupEnvFileMissingIsNotFatal(t *testing.T) {
	// no .env anywhere near the test working directory
	SetupEnvFile()

	t.Setenv("RYVYNN_TEST_FROM_OS", "from-os")
	if got := GetEnv("RYVYNN_TEST_FROM_OS", "def"); got != "from-os" {
		t.Errorf("GetEnv = %q, want the process environment value", got)
	}
	if got := GetEnv("RYVYNN_TEST_ABSENT", "def"); got != "def" {
		t.Errorf("GetEnv = %q, want the default", got)
	}
}

func TestFileValueWinsOverProcessEnv(t *testing.T) {
	fileEnv = map[string]string{"RYVYNN_TEST_KEY": "from-file"}
	t.Cleanup(func() { fileEnv = nil })

	t.Setenv("RYVYNN_TEST_KEY", "from-os")
	if got := GetEnv("RYVYNN_TEST_KEY", "def"); got != "from-file" {
		t.Errorf("GetEnv = %q, want the .env value to win", got)
	}
}
