// Пакет ownership — решение о допуске к ресурсу.
// Правило: доступ разрешён владельцу ресурса, либо субъекту с требуемой
// ролью (админский обход). Отсутствие identity — всегда жёсткий отказ.
package ownership

// Identity — минимальный контракт identity вызывающего.
// Реализуется middleware.AuthClaims.
type Identity interface {
	// SubjectID возвращает идентификатор субъекта (sub из JWT).
	SubjectID() string
	// HasRole проверяет наличие роли у субъекта.
	HasRole(role string) bool
}

// CanAccess решает, может ли caller читать/изменять ресурс владельца ownerID.
// requiredRole — роль, дающая обход проверки владения (пустая строка —
// обхода нет, доступ только владельцу).
// nil caller — всегда отказ.
func CanAccess(caller Identity, ownerID string, requiredRole string) bool {
	if caller == nil || caller.SubjectID() == "" {
		return false
	}
	if caller.SubjectID() == ownerID {
		return true
	}
	if requiredRole != "" && caller.HasRole(requiredRole) {
		return true
	}
	return false
}

// IsOwner проверяет только совпадение владельца, без ролевого обхода.
func IsOwner(caller Identity, ownerID string) bool {
	return caller != nil && caller.SubjectID() != "" && caller.SubjectID() == ownerID
}
