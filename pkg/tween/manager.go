package tween

import "log"

// Manager 补间管理器
// 持有所有运行中的序列，每帧由调用方推进
type Manager struct {
	sequences []*Sequence
	verbose   bool
}

// NewManager 创建补间管理器
func NewManager() *Manager {
	return &Manager{
		sequences: make([]*Sequence, 0),
	}
}

// SetVerbose 开启后记录序列完成日志
func (m *Manager) SetVerbose(verbose bool) {
	m.verbose = verbose
}

// Play 创建并注册一个序列
// 序列在下一次 Update 时捕获目标当前值作为起点
func (m *Manager) Play(target Target, spec SequenceSpec) Handle {
	seq := newSequence(target, spec)
	m.sequences = append(m.sequences, seq)
	return seq
}

// Update 推进所有运行中的序列
//
// 回调期间新建的序列从下一帧开始推进；回调中被 Kill 的序列本帧不再推进。
// 完成回调返回错误时只影响该序列（序列照常释放），
// 返回本帧遇到的第一个错误。
func (m *Manager) Update(dt float64) error {
	var firstErr error

	pending := make([]*Sequence, len(m.sequences))
	copy(pending, m.sequences)

	for _, seq := range pending {
		if !seq.IsActive() {
			continue
		}
		if !seq.advance(seq.step(dt)) {
			continue
		}

		seq.complete = true
		if seq.spec.OnComplete != nil {
			if err := seq.spec.OnComplete(); err != nil {
				log.Printf("[TweenManager] completion callback failed: %v", err)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
		seq.killed = true
		if m.verbose {
			log.Printf("[TweenManager] sequence completed after %d cycle(s)", seq.cycles)
		}
	}

	m.sweep()
	return firstErr
}

// sweep 移除已释放的序列
func (m *Manager) sweep() {
	alive := m.sequences[:0]
	for _, seq := range m.sequences {
		if seq.IsActive() {
			alive = append(alive, seq)
		}
	}
	for i := len(alive); i < len(m.sequences); i++ {
		m.sequences[i] = nil
	}
	m.sequences = alive
}

// ActiveCount 返回运行中的序列数量
func (m *Manager) ActiveCount() int {
	count := 0
	for _, seq := range m.sequences {
		if seq.IsActive() {
			count++
		}
	}
	return count
}

// KillAll 释放所有序列（场景重载时使用）
func (m *Manager) KillAll() {
	for _, seq := range m.sequences {
		seq.Kill()
	}
	m.sequences = m.sequences[:0]
}
