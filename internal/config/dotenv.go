package config

import (
	"os"

	"github.com/joho/godotenv"
)

// dotEnvCandidates 우선순위 순서: .env.<env>.local > .env.local > .env.<env> > .env
func dotEnvCandidates(env string) []string {
	if env == "" {
		return []string{".env.local", ".env"}
	}
	return []string{".env." + env + ".local", ".env.local", ".env." + env, ".env"}
}

// LoadDotEnv 존재하는 .env 파일을 우선순위대로 로드하고 로드한 파일 목록을 반환한다.
// godotenv 는 이미 설정된 변수를 덮어쓰지 않으므로 OS 환경변수가 항상 이기고,
// 앞선 파일이 뒤 파일보다 우선한다.
func LoadDotEnv(env string) []string {
	var loaded []string
	for _, f := range dotEnvCandidates(env) {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}
