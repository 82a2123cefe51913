package sharedcontent

import (
	"context"

	"github.com/damoang/angple-contents/pkg/i18n"
)

// OwnerResolver owner.Resolver 구현
// 요청 locale 을 현재 언어로 설정하고, 없으면 기본 언어를 쓴다
type OwnerResolver struct {
	repo            *Repository
	defaultLanguage string
}

// NewOwnerResolver 생성자
func NewOwnerResolver(repo *Repository, defaultLanguage string) *OwnerResolver {
	if defaultLanguage == "" {
		defaultLanguage = string(i18n.Default())
	}
	return &OwnerResolver{repo: repo, defaultLanguage: defaultLanguage}
}

// ResolveOwner ID로 SharedContent 조회
func (r *OwnerResolver) ResolveOwner(ctx context.Context, id int64) (interface{}, error) {
	sc, err := r.repo.WithTx(r.repo.db.WithContext(ctx)).FindByID(id)
	if err != nil {
		return nil, err
	}
	lang := r.defaultLanguage
	if locale, ok := i18n.FromContext(ctx); ok {
		lang = string(locale)
	}
	sc.SetCurrentLanguage(lang)
	return sc, nil
}
