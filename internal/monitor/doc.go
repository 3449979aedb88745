// Package monitor — ядро наблюдателя за составом клана: бесконечный цикл
// fetch -> diff -> notify -> swap с фиксированным интервалом.
//
// Монитор единолично владеет состоянием «последний известный состав»
// (tag -> имя) и меняет его только в конце удачного цикла, после всех
// попыток уведомления. Читатели (команды /status и /members) получают
// копию через Snapshot()/Size() и никогда не блокируют цикл надолго.
//
// Семантика отказов:
//   - неудачный fetch: цикл пропускается целиком, состояние не трогаем,
//     повтор через тот же интервал (без backoff, это осознанно);
//   - неудачная доставка уведомления: логируем и идём дальше, остальные
//     уведомления и обновление состояния не страдают.
//
// Стартовая инициализация: один fetch до цикла заполняет состояние без
// уведомлений, чтобы первый цикл не отчитался обо всём клане как о
// вступивших. Если стартовый fetch не удался, состояние остаётся пустым
// и первый удачный цикл всё-таки пришлёт полный список — разовая цена
// холодного старта.
//
// Пример:
//
//	mon := monitor.New(coc, bot, time.Minute, logger)
//	go mon.Run(ctx)
//	...
//	fmt.Println(mon.Size()) // текущий размер состава
package monitor
