package runinfo

import "testing"

func clearCIEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GITHUB_ACTIONS", "GITHUB_REPOSITORY", "GITHUB_HEAD_REF", "GITHUB_REF_NAME",
		"GITHUB_SHA", "GITHUB_RUN_ID", "GITHUB_ACTOR", "GITHUB_REF", "GITHUB_SERVER_URL",
		"CI", "CI_PROVIDER", "CI_PROJECT_PATH", "CI_COMMIT_REF_NAME", "BRANCH_NAME",
		"GIT_BRANCH", "CI_COMMIT_SHA", "GIT_COMMIT", "CI_PIPELINE_ID", "BUILD_ID",
		"CI_JOB_URL", "BUILD_URL",
		"NL2SQLEVAL_CI", "NL2SQLEVAL_CI_PROVIDER", "NL2SQLEVAL_CI_REPOSITORY",
		"NL2SQLEVAL_CI_BRANCH", "NL2SQLEVAL_CI_COMMIT", "NL2SQLEVAL_CI_RUN_ID",
		"NL2SQLEVAL_CI_PULL_REQUEST", "NL2SQLEVAL_CI_ACTOR", "NL2SQLEVAL_CI_BUILD_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvEmpty(t *testing.T) {
	clearCIEnv(t)
	if info := FromEnv(); info != nil {
		t.Fatalf("expected nil outside CI, got %+v", info)
	}
}

func TestFromEnvGitHubActions(t *testing.T) {
	clearCIEnv(t)
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("GITHUB_REPOSITORY", "acme/nl2sql")
	t.Setenv("GITHUB_REF", "refs/pull/42/merge")
	t.Setenv("GITHUB_REF_NAME", "refs/heads/main")
	t.Setenv("GITHUB_SHA", "abc123")
	t.Setenv("GITHUB_RUN_ID", "777")

	info := FromEnv()
	if info == nil {
		t.Fatalf("expected run info")
	}
	if !info.CI || info.Provider != "github_actions" {
		t.Fatalf("unexpected provider detection: %+v", info)
	}
	if info.Branch != "main" {
		t.Fatalf("unexpected branch: %s", info.Branch)
	}
	if info.PullRequest != "42" {
		t.Fatalf("unexpected pull request: %s", info.PullRequest)
	}
	if info.BuildURL != "https://github.com/acme/nl2sql/actions/runs/777" {
		t.Fatalf("unexpected build url: %s", info.BuildURL)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearCIEnv(t)
	t.Setenv("NL2SQLEVAL_CI_COMMIT", "deadbeef")
	t.Setenv("NL2SQLEVAL_CI_PROVIDER", "Jenkins")

	info := FromEnv()
	if info == nil {
		t.Fatalf("expected run info from overrides")
	}
	if !info.CI {
		t.Fatalf("explicit overrides should imply CI")
	}
	if info.Provider != "jenkins" {
		t.Fatalf("unexpected provider: %s", info.Provider)
	}
	if info.Commit != "deadbeef" {
		t.Fatalf("unexpected commit: %s", info.Commit)
	}
}
