package page

// snapshotJS enumerates interactive elements and resolves labels in the
// browser. The label fallback chain here is the contract documented on
// Page.Fields; keep the order intact.
const snapshotJS = `(() => {
	const selectorFor = (el, idx) => {
		if (el.id) return '#' + CSS.escape(el.id);
		if (el.name) return el.tagName.toLowerCase() + '[name="' + CSS.escape(el.name) + '"]';
		return '[data-seeker-idx="' + idx + '"]';
	};

	const resolveLabel = (el) => {
		if (el.id) {
			const bound = document.querySelector('label[for="' + CSS.escape(el.id) + '"]');
			if (bound && bound.innerText.trim()) return bound.innerText.trim();
		}
		const enclosing = el.closest('label');
		if (enclosing) {
			const text = enclosing.innerText.replace(el.value || '', '').trim();
			if (text) return text;
		}
		const aria = el.getAttribute('aria-label');
		if (aria && aria.trim()) return aria.trim();
		const prev = el.previousElementSibling;
		if (prev && (prev.tagName === 'LABEL' || prev.tagName === 'SPAN')) {
			const text = prev.innerText.trim();
			if (text) return text;
		}
		return '';
	};

	const visible = (el) => {
		const style = window.getComputedStyle(el);
		if (style.display === 'none' || style.visibility === 'hidden') return false;
		const rect = el.getBoundingClientRect();
		return rect.width > 0 && rect.height > 0;
	};

	const els = document.querySelectorAll('input, textarea, select, button, a[href]');
	const out = [];
	let idx = 0;

	for (const el of els) {
		idx++;
		if (!el.id && !el.name) el.setAttribute('data-seeker-idx', idx);

		const tag = el.tagName.toLowerCase();
		const field = {
			selector: selectorFor(el, idx),
			tag: tag,
			type: (el.getAttribute('type') || (tag === 'input' ? 'text' : tag)).toLowerCase(),
			name: el.getAttribute('name') || '',
			id: el.id || '',
			placeholder: el.getAttribute('placeholder') || '',
			label: resolveLabel(el),
			text: (el.innerText || '').trim(),
			required: el.hasAttribute('required'),
			visible: visible(el),
			enabled: !el.disabled,
			value: el.value || ''
		};

		if (tag === 'select') {
			field.options = Array.from(el.options).map(o => ({ value: o.value, text: o.text }));
		}

		out.push(field);
	}

	return out;
})()`
