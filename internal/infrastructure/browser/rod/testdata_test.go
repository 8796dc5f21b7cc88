package rod

// HTML fixtures served to the adapter tests.
const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
</body>
</html>`

	FormHTML = `<!DOCTYPE html>
<html>
<body>
	<form id="loginForm">
		<input id="username" type="text" name="username" />
		<input id="password" type="password" name="password" />
		<button id="submit" type="submit">Submit</button>
	</form>
	<div id="plain">just text</div>
	<div id="editable" contenteditable="true">notes</div>
</body>
</html>`

	AmbiguousHTML = `<!DOCTYPE html>
<html>
<body>
	<button class="item">First</button>
	<button class="item">Second</button>
	<button id="only">Unique</button>
</body>
</html>`

	HiddenTwinHTML = `<!DOCTYPE html>
<html>
<body>
	<button class="buy" style="display:none">hidden twin</button>
	<button class="buy" onclick="document.getElementById('result').textContent='bought'">Buy</button>
	<div id="result"></div>
</body>
</html>`

	DisabledHTML = `<!DOCTYPE html>
<html>
<body>
	<button id="locked" disabled onclick="document.getElementById('result').textContent='oops'">Locked</button>
	<input id="frozen" type="text" disabled />
	<button class="save" disabled>disabled twin</button>
	<button class="save" onclick="document.getElementById('result').textContent='saved'">Save</button>
	<div id="result"></div>
</body>
</html>`

	LateElementHTML = `<!DOCTYPE html>
<html>
<body>
	<div id="stage"></div>
	<script>
		setTimeout(function() {
			var el = document.createElement('div');
			el.id = 'late';
			el.textContent = 'arrived';
			document.getElementById('stage').appendChild(el);
		}, 200);
	</script>
</body>
</html>`

	CoordinateHTML = `<!DOCTYPE html>
<html>
<body style="margin:0">
	<button id="target" style="position:absolute;left:10px;top:10px;width:200px;height:100px"
		onclick="document.getElementById('result').textContent='Clicked!'">Press</button>
	<div id="result" style="position:absolute;top:150px"></div>
</body>
</html>`

	NoisyHTML = `<!DOCTYPE html>
<html>
<head><title>Noisy</title></head>
<body>
	<h1>Visible heading</h1>
	<script>var tracking = "beacon";</script>
	<div hidden>invisible payload</div>
	<p data-reactid="7">paragraph</p>
</body>
</html>`

	ScrollableHTML = `<!DOCTYPE html>
<html>
<body>
	<div style="height:4000px">tall content</div>
	<div id="bottom">the end</div>
</body>
</html>`
)
