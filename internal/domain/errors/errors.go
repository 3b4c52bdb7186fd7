package errors

import "errors"

var (
	ErrValidationFailed   = errors.New("ошибка валидации")
	ErrBadRequest         = errors.New("неверный запрос")
	ErrInternalServer     = errors.New("внутренняя ошибка сервера")
	ErrInvalidCredentials = errors.New("неверный email или пароль")
	ErrMissingToken       = errors.New("нет доступа: токен отсутствует")
	ErrInvalidToken       = errors.New("нет доступа: токен просрочен или недействителен")
	ErrUserNotFound       = errors.New("пользователь не найден")
	ErrEmailTaken         = errors.New("email уже зарегистрирован")
	ErrTodoNotFound       = errors.New("задача не найдена")
	ErrTagNotFound        = errors.New("метка не найдена")
	ErrTagExists          = errors.New("метка уже существует")

	ErrEmptyUsername   = errors.New("имя пользователя не может быть пустым")
	ErrInvalidEmail    = errors.New("некорректный формат email")
	ErrWeakPassword    = errors.New("слишком простой пароль")
	ErrEmptyTitle      = errors.New("заголовок задачи не может быть пустым")
	ErrEmptyDeadline   = errors.New("срок задачи не может быть пустым")
	ErrInvalidDeadline = errors.New("некорректный срок задачи")
	ErrEmptyTagName    = errors.New("название метки не может быть пустым")

	ErrConfigFileReadFailed = errors.New("не удалось прочитать файл конфигурации")
	ErrConfigParseFailed    = errors.New("не удалось разобрать файл конфигурации")
	ErrConfigInvalidFormat  = errors.New("некорректное значение конфигурации")
	ErrMissingSecret        = errors.New("не задан секрет подписи токенов")
)
