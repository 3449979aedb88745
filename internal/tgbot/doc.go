// Package tgbot — телеграм-обвязка наблюдателя: доставка уведомлений о
// вступивших/ушедших и read-only команды поверх одного и того же чата.
//
// Бот работает только с одним настроенным чатом: уведомления шлём туда,
// команды из чужих чатов игнорируем. Команды:
//   - /start — приветствие;
//   - /status — тег клана, размер сохранённого состава, период опроса;
//   - /members — список участников (по имени, не больше 200 строк).
//
// Команды читают состояние монитора на момент вызова через StateReader и
// ничего не меняют. Уведомления (Notify) реализуют monitor.Notifier:
// одно сообщение на одно событие, ошибка доставки логируется и отдаётся
// вызывающему, для него она не фатальна.
//
// Работа с Telegram идёт через узкий интерфейс BotAPI, чтобы бот можно
// было тестировать без сети.
package tgbot
